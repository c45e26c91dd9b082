package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// trackingIter records Close calls.
type trackingIter struct {
	items  []int
	idx    int
	err    error
	errAt  int
	closed int
}

func (it *trackingIter) Next(_ context.Context) (int, bool, error) {
	if it.err != nil && it.idx == it.errAt {
		return 0, false, it.err
	}
	if it.idx >= len(it.items) {
		return 0, false, nil
	}
	v := it.items[it.idx]
	it.idx++
	return v, true, nil
}

func (it *trackingIter) Close() error {
	it.closed++
	return nil
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFromSlice_Collect(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestMapTap(t *testing.T) {
	seen := 0
	p := Map(FromSlice([]int{1, 2, 4}), func(_ context.Context, n int) (string, error) {
		return fmt.Sprintf("<%d>", n), nil
	})
	p = Tap(p, func(_ context.Context, _ string) error {
		seen++
		return nil
	})

	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"<1>", "<2>", "<4>"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if seen != 3 {
		t.Errorf("expected tap to see 3 values, got %d", seen)
	}
}

func TestDrainClosesOnExhaustion(t *testing.T) {
	it := &trackingIter{items: []int{1, 2}}
	if err := Drain(From[int](it), func(context.Context, int) error { return nil }).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if it.closed != 1 {
		t.Errorf("expected 1 close, got %d", it.closed)
	}
}

func TestDrainClosesOnSourceError(t *testing.T) {
	boom := errors.New("cursor broke")
	it := &trackingIter{items: []int{1, 2, 3}, err: boom, errAt: 1}

	var got []int
	err := Drain(From[int](it), func(_ context.Context, v int) error {
		got = append(got, v)
		return nil
	}).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected source error, got %v", err)
	}
	if !intSliceEqual(got, []int{1}) {
		t.Errorf("expected values before the error to be delivered, got %v", got)
	}
	if it.closed != 1 {
		t.Errorf("expected 1 close, got %d", it.closed)
	}
}

func TestDrainClosesOnStageError(t *testing.T) {
	it := &trackingIter{items: []int{1, 2, 3}}
	bad := errors.New("bad record")
	p := Map(From[int](it), func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, bad
		}
		return n, nil
	})

	var got []int
	err := Drain(p, func(_ context.Context, v int) error {
		got = append(got, v)
		return nil
	}).Run(context.Background())
	if !errors.Is(err, bad) {
		t.Errorf("expected stage error, got %v", err)
	}
	if !intSliceEqual(got, []int{1}) {
		t.Errorf("expected [1], got %v", got)
	}
	if it.closed != 1 {
		t.Errorf("expected source to be closed through the stage, got %d", it.closed)
	}
}

func TestDrainSinkError(t *testing.T) {
	it := &trackingIter{items: []int{1, 2, 3}}
	stop := errors.New("sink full")
	err := Drain(From[int](it), func(context.Context, int) error { return stop }).Run(context.Background())
	if !errors.Is(err, stop) {
		t.Errorf("expected sink error, got %v", err)
	}
	if it.idx != 1 {
		t.Errorf("expected pulling to stop at the failing value, pulled %d", it.idx)
	}
	if it.closed != 1 {
		t.Errorf("expected 1 close, got %d", it.closed)
	}
}

func TestTapErrorStops(t *testing.T) {
	it := &trackingIter{items: []int{1, 2, 3}}
	full := errors.New("quota")
	p := Tap(From[int](it), func(_ context.Context, n int) error {
		if n == 2 {
			return full
		}
		return nil
	})

	got, err := Collect(context.Background(), p)
	if !errors.Is(err, full) {
		t.Errorf("expected tap error, got %v", err)
	}
	if !intSliceEqual(got, []int{1}) {
		t.Errorf("expected [1], got %v", got)
	}
	if it.closed != 1 {
		t.Errorf("expected 1 close, got %d", it.closed)
	}
}

func TestIterReturnsRawIterator(t *testing.T) {
	it, err := Map(FromSlice([]int{7}), func(_ context.Context, n int) (int, error) { return n * 2, nil }).Iter(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	v, ok, err := it.Next(context.Background())
	if err != nil || !ok || v != 14 {
		t.Errorf("expected (14, true, nil), got (%d, %v, %v)", v, ok, err)
	}
	if _, ok, _ := it.Next(context.Background()); ok {
		t.Error("expected exhaustion after one value")
	}
}
