// Package testutil provides an in-memory transfer sink for tests.
//
//	sink := testutil.NewSink()
//	sink.CheckErr = errors.TransferAuth("sftp", nil)
//	// run the job against sink, then:
//	data, ok := sink.File("/dev/people.xml")
package testutil
