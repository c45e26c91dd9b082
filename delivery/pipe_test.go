package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"go.uber.org/goleak"

	apperrors "github.com/mitlibraries/carbon/errors"
	"github.com/mitlibraries/carbon/feed"
	feedtest "github.com/mitlibraries/carbon/feed/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func manyArticles(n int) []feed.Record {
	recs := make([]feed.Record, 0, n)
	for i := 0; i < n; i++ {
		r := feed.Record{}
		for _, col := range feed.ArticleColumns {
			r[col] = fmt.Sprintf("%s-%d-Þorgerðr", col, i)
		}
		r["AA_MATCH_SCORE"] = 3.5
		recs = append(recs, r)
	}
	return recs
}

func TestPipeMatchesSynchronousOutput(t *testing.T) {
	recs := manyArticles(500)
	ctx := context.Background()

	syncFeed, _ := feed.New(feed.Articles, feedtest.NewSource(feed.Articles, recs...))
	var want bytes.Buffer
	if _, err := syncFeed.Run(ctx, &want); err != nil {
		t.Fatalf("synchronous run failed: %v", err)
	}
	if want.Len() <= 4*1024 {
		t.Fatalf("fixture too small to exceed the buffer: %d bytes", want.Len())
	}

	pipedFeed, _ := feed.New(feed.Articles, feedtest.NewSource(feed.Articles, recs...))
	var got bytes.Buffer
	res, err := NewPipe(WithBufferSize(4*1024)).Run(ctx,
		func(w io.Writer) error {
			_, err := pipedFeed.Run(ctx, w)
			return err
		},
		func(r io.Reader) error {
			// Small reads interleave with the producer's writes.
			_, err := io.CopyBuffer(&got, r, make([]byte, 97))
			return err
		},
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !bytes.Equal(got.Bytes(), want.Bytes()) {
		t.Errorf("piped output differs from synchronous output (%d vs %d bytes)", got.Len(), want.Len())
	}
	if res.Bytes != int64(want.Len()) {
		t.Errorf("expected %d bytes counted, got %d", want.Len(), res.Bytes)
	}
}

func TestPipeProducerFailureReachesConsumer(t *testing.T) {
	boom := apperrors.RecordShape("record", "APPOINTMENT_END_DATE")
	var consumerErr error
	var consumed bytes.Buffer

	_, err := NewPipe().Run(context.Background(),
		func(w io.Writer) error {
			io.WriteString(w, "<records>")
			return boom
		},
		func(r io.Reader) error {
			_, consumerErr = io.Copy(&consumed, r)
			return consumerErr
		},
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected producer error, got %v", err)
	}
	if strings.Contains(err.Error(), "\n") {
		t.Errorf("expected the echoed consumer error not to be joined, got %q", err.Error())
	}
	if !errors.Is(consumerErr, boom) {
		t.Errorf("expected consumer to see the producer error instead of EOF, got %v", consumerErr)
	}
}

func TestPipeConsumerFailureReleasesProducer(t *testing.T) {
	rejected := apperrors.TransferAuth("sftp", errors.New("permission denied"))
	var producerErr error

	_, err := NewPipe(WithBufferSize(16)).Run(context.Background(),
		func(w io.Writer) error {
			for i := 0; i < 10000; i++ {
				if _, producerErr = io.WriteString(w, "<record></record>"); producerErr != nil {
					return producerErr
				}
			}
			return nil
		},
		func(r io.Reader) error {
			io.ReadFull(r, make([]byte, 64))
			return rejected
		},
	)
	if !errors.Is(err, rejected) {
		t.Fatalf("expected consumer error, got %v", err)
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeTransferAuth) {
		t.Errorf("expected TRANSFER_AUTH, got %s", apperrors.CodeOf(err))
	}
	if !errors.Is(producerErr, rejected) {
		t.Errorf("expected producer write to fail with the consumer error, got %v", producerErr)
	}
}

func TestPipeBothFail(t *testing.T) {
	produced := errors.New("query failed")
	uploaded := errors.New("upload rejected")

	_, err := NewPipe().Run(context.Background(),
		func(io.Writer) error { return produced },
		func(r io.Reader) error {
			io.Copy(io.Discard, r)
			return uploaded
		},
	)
	if !errors.Is(err, produced) || !errors.Is(err, uploaded) {
		t.Fatalf("expected both errors, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), produced.Error()) {
		t.Errorf("expected producer error first, got %q", err.Error())
	}
}

func TestPipeConsumerStopsEarly(t *testing.T) {
	_, err := NewPipe(WithBufferSize(16)).Run(context.Background(),
		func(w io.Writer) error {
			_, err := io.WriteString(w, strings.Repeat("x", 1024))
			return err
		},
		func(r io.Reader) error {
			io.ReadFull(r, make([]byte, 8))
			return nil
		},
	)
	if !apperrors.HasCode(err, apperrors.ErrCodePipeFailure) {
		t.Fatalf("expected PIPE_FAILURE, got %v", err)
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("expected io.ErrClosedPipe cause, got %v", err)
	}
}

func TestPipeEmptyStream(t *testing.T) {
	var got []byte
	res, err := NewPipe().Run(context.Background(),
		func(io.Writer) error { return nil },
		func(r io.Reader) error {
			var err error
			got, err = io.ReadAll(r)
			return err
		},
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(got) != 0 || res.Bytes != 0 {
		t.Errorf("expected empty stream, got %d bytes (%d counted)", len(got), res.Bytes)
	}
}

func TestPipeProducerPanicReleasesConsumer(t *testing.T) {
	done := make(chan error, 1)
	func() {
		defer func() { recover() }()
		NewPipe().Run(context.Background(),
			func(io.Writer) error { panic("boom") },
			func(r io.Reader) error {
				_, err := io.ReadAll(r)
				done <- err
				return err
			},
		)
	}()
	if err := <-done; !errors.Is(err, errProducerAborted) {
		t.Errorf("expected consumer to see an aborted stream, got %v", err)
	}
}
