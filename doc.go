// Package featprep turns raw tabular data into a purely numeric feature
// matrix, driven by a per-column feature table.
//
// Each column names a strategy (one hot encoding, hashing, count
// vectorizing, tf-idf, text similarity, scaling, or passthrough).
// A Preprocessor learns the per-column parameters on a training table and
// reapplies them so that every later transform yields exactly the fit-time
// column layout, even when the new data carries unseen categories, unseen
// words, or missing columns.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/featprep/core/frame"
//	    "github.com/YuminosukeSato/featprep/feature"
//	    "github.com/YuminosukeSato/featprep/preprocessing"
//	)
//
//	func main() {
//	    specs := feature.Specs{
//	        {Name: "color", Strategy: feature.OneHot},
//	        {Name: "city", Strategy: feature.Hashing, Args: "8"},
//	        {Name: "amount", Strategy: feature.Scaling},
//	    }
//
//	    train := frame.NewTable(3)
//	    _ = train.AddStrings("color", []string{"red", "green", "red"})
//	    _ = train.AddStrings("city", []string{"tokyo", "osaka", "nagoya"})
//	    _ = train.AddFloats("amount", []float64{10, 20, 30})
//
//	    p, err := preprocessing.New(specs,
//	        preprocessing.WithScaler("MinMaxScaler", nil),
//	        preprocessing.WithMissing("mean"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    out, err := p.FitTransform(train)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out.Columns)
//	}
//
// # Packages
//
//   - feature: feature tables, strategy names, strategy_args parsing and
//     column classification
//   - preprocessing: the Preprocessor, its encoders and the scaler registry
//   - core/frame: the raw Table and the named numeric Frame
//   - core/model: fitted state tracking and gob persistence
//   - core/parallel: row-parallel helpers used by the scalers
//   - pkg/config: YAML and FEATPREP_* environment configuration
//   - pkg/log: structured logging on slog and zerolog
//   - pkg/errors: typed errors on cockroachdb/errors
package featprep
