// Package pipeline provides lazy, pull-based stream operators.
//
// No work happens until values are pulled via Collect or Drain. Each stage
// pulls from the previous one on demand, so a pipeline holds at most one
// value per stage in memory and slows down when its sink does.
//
//	rows, err := source.Records(ctx, kind)
//	elems := pipeline.Map(pipeline.From(rows), build)
//	counted := pipeline.Tap(elems, count)
//	err = pipeline.Drain(counted, writer.WriteRecord).Run(ctx)
package pipeline
