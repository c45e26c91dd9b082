// Package testutil wires test components (an in-memory warehouse, a
// recording sink) into testing.T lifecycles.
//
//	wh := dbtest.NewWarehouse()
//	testutil.T(t).Setup(wh)
//	testutil.T(t).Reset(wh)
package testutil
