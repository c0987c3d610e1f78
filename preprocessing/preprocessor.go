package preprocessing

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/core/model"
	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/errors"
	"github.com/YuminosukeSato/featprep/pkg/log"
)

const modelName = "Preprocessor"

var (
	_ model.TableTransformer[*FeatureMatrix] = (*Preprocessor)(nil)
	_ model.Persistable                      = (*Preprocessor)(nil)
	_ model.FittedChecker                    = (*Preprocessor)(nil)
)

// fittedState は fit で作られ transform では読み取りのみ
// fit のたびに丸ごと置き換える
type fittedState struct {
	OneHot         oneHotState
	Hashing        hashingState
	Counts         vectorizerState
	TfIdf          vectorizerState
	TextSimilarity textSimilarityState
	Scaling        scalingState
	Passthrough    frame.Structure
	Output         frame.Structure
}

// Preprocessor learns per-column encodings from a training table and
// reapplies them so every transform yields the fit-time column layout.
//
// Exported fields are persisted by Save; runtime collaborators such as the
// logger and the metrics registry are rebuilt on Load.
type Preprocessor struct {
	ID        string
	Name      string
	Specs     feature.Specs
	Config    Options
	State     *model.StateManager
	Fitted    fittedState
	Timestamp time.Time

	groups     *feature.Groups
	logger     log.Logger
	registerer prometheus.Registerer
	metrics    *metrics
	diag       *diagnostics
}

// New は特徴量仕様と設定から Preprocessor を作成する
//
// 戦略名・戦略引数・スケーラー名・スケーラー引数・欠損値ポリシーは
// ここで検証し、不正な場合は ValidationError を返す
//
// 使用例:
//
//	p, err := preprocessing.New(specs,
//	    preprocessing.WithScaler("MinMaxScaler", nil),
//	    preprocessing.WithMissing("mean"),
//	)
func New(specs feature.Specs, opts ...Option) (*Preprocessor, error) {
	p := &Preprocessor{
		ID:     uuid.NewString(),
		Config: DefaultOptions(),
		State:  model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	if err := p.configure(specs); err != nil {
		return nil, err
	}
	return p, nil
}

// init attaches the logger and metrics. It runs on New and on Load.
func (p *Preprocessor) init() error {
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("preprocessing")
	}
	p.logger = p.logger.With(log.ModelNameKey, modelName, log.EstimatorIDKey, p.ID)

	m, err := newMetrics(p.registerer)
	if err != nil {
		return err
	}
	p.metrics = m
	return nil
}

// configure validates the options and classifies specs. Nothing is replaced
// unless both succeed.
func (p *Preprocessor) configure(specs feature.Specs) error {
	config := p.Config
	if err := config.Validate(); err != nil {
		return err
	}
	groups, err := feature.Classify(specs)
	if err != nil {
		return err
	}

	p.Config = config
	p.Specs = append(feature.Specs(nil), specs...)
	p.groups = groups
	p.diag = newDiagnostics(config.LogFile)

	for _, g := range groups.Active() {
		p.logger.Debug("Classified features",
			log.StrategyKey, g.Strategy.String(),
			log.ColumnsKey, g.Columns(),
		)
	}
	p.writeDiagnostics(stageClassify, p.diag.classified(groups))
	return nil
}

// writeDiagnostics logs a failed diagnostics write; the result of the
// operation is unaffected.
func (p *Preprocessor) writeDiagnostics(stage string, err error) {
	if err != nil {
		p.logger.Warn("Failed to write diagnostics",
			log.StageKey, stage,
			log.ErrAttrKey, err,
		)
	}
}

// finish records the outcome of a public operation in metrics and, on
// failure, in the log.
func (p *Preprocessor) finish(operation string, start time.Time, err error) {
	p.metrics.observe(operation, start, err)
	if err != nil {
		fields := append([]any{err, log.OperationKey, operation}, log.ErrorFields(err)...)
		p.logger.Error("Preprocessor operation failed", fields...)
	}
}

// Fit learns the encoder, imputation and scaler state from X.
//
// Every column named by the feature specs must be present in X. A failed fit
// leaves the previous fitted state in place.
func (p *Preprocessor) Fit(X *frame.Table) (err error) {
	start := time.Now()
	defer func() { p.finish(log.OperationFit, start, err) }()
	defer errors.Recover(&err, "Preprocessor.Fit")

	_, err = p.fit(X, start)
	return err
}

// Refit retrains from scratch. A nil specs keeps the current feature specs.
func (p *Preprocessor) Refit(X *frame.Table, specs feature.Specs) error {
	if specs != nil {
		if err := p.configure(specs); err != nil {
			return err
		}
		p.State.Reset()
	}
	return p.Fit(X)
}

// Transform encodes X with the fitted state. The result always has the
// fit-time columns in fit-time order; columns of the specs that X lacks are
// treated as entirely missing.
func (p *Preprocessor) Transform(X *frame.Table) (out *FeatureMatrix, err error) {
	start := time.Now()
	defer func() { p.finish(log.OperationTransform, start, err) }()
	defer errors.Recover(&err, "Preprocessor.Transform")

	if err := p.State.RequireFitted(modelName, "Transform"); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewValidationError("X", "input table must not be nil", nil)
	}

	in, absent := X.Conform(p.Specs.Names())
	if len(absent) > 0 {
		p.logger.Warn("Input columns missing; treated as missing values",
			log.OperationKey, log.OperationTransform,
			log.ColumnsKey, absent,
		)
	}

	outs, err := p.apply(in)
	if err != nil {
		return nil, err
	}
	assembled, err := assemble(in.Index(), outs, p.Config)
	if err != nil {
		return nil, err
	}
	assembled = assembled.Align(p.Fitted.Output)
	p.writeDiagnostics(stageTransform, p.diag.frames(stageTransform,
		append(outs.named(), namedFrame{"output", assembled})))

	p.logger.Info("Transform completed",
		log.OperationKey, log.OperationTransform,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, assembled.Rows(),
		log.FeaturesKey, assembled.Cols(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return p.matrix(assembled), nil
}

// FitTransform fits on X and returns the transform of X.
func (p *Preprocessor) FitTransform(X *frame.Table) (out *FeatureMatrix, err error) {
	start := time.Now()
	defer func() { p.finish(log.OperationFitTransform, start, err) }()
	defer errors.Recover(&err, "Preprocessor.FitTransform")

	assembled, err := p.fit(X, start)
	if err != nil {
		return nil, err
	}
	return p.matrix(assembled), nil
}

// RefitTransform retrains like Refit and returns the transform of X.
func (p *Preprocessor) RefitTransform(X *frame.Table, specs feature.Specs) (*FeatureMatrix, error) {
	if specs != nil {
		if err := p.configure(specs); err != nil {
			return nil, err
		}
		p.State.Reset()
	}
	return p.FitTransform(X)
}

// fit runs every active encoder in fit mode and commits the new state only
// when all of them succeed. It returns the assembled training output.
func (p *Preprocessor) fit(X *frame.Table, start time.Time) (*frame.Frame, error) {
	if X == nil || X.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Preprocessor.Fit")
	}
	in, err := X.Select(p.Specs.Names())
	if err != nil {
		return nil, err
	}

	var (
		state fittedState
		outs  pipelineOutputs
		g     = p.groups
	)
	if grp := g.Get(feature.OneHot); grp.Active {
		if outs.oneHot, state.OneHot, err = fitOneHot(in, grp); err != nil {
			return nil, err
		}
	}
	if grp := g.Get(feature.TextSimilarity); grp.Active {
		if outs.textSim, state.TextSimilarity, err = fitTextSimilarity(in, grp); err != nil {
			return nil, err
		}
	}
	if grp := g.Get(feature.Hashing); grp.Active {
		if outs.hashed, state.Hashing, err = fitHashing(in, grp); err != nil {
			return nil, err
		}
	}
	if grp := g.Get(feature.CountVectorizing); grp.Active {
		if outs.counts, state.Counts, err = fitVectors(in, grp); err != nil {
			return nil, err
		}
	}
	if grp := g.Get(feature.TfIdf); grp.Active {
		if outs.tfidf, state.TfIdf, err = fitVectors(in, grp); err != nil {
			return nil, err
		}
	}
	if grp := g.Get(feature.None); grp.Active {
		if outs.passthrough, err = numericColumns(in, grp.Columns()); err != nil {
			return nil, err
		}
		state.Passthrough = outs.passthrough.Structure()
	}

	scaleIn, err := scaleInput(in, g, outs, p.Config)
	if err != nil {
		return nil, err
	}
	if state.Scaling, err = fitScaling(scaleIn, p.Config); err != nil {
		return nil, err
	}
	if outs.scaled, err = applyScaling(scaleIn, state.Scaling); err != nil {
		return nil, err
	}

	assembled, err := assemble(in.Index(), outs, p.Config)
	if err != nil {
		return nil, err
	}
	state.Output = assembled.Structure()

	p.Fitted = state
	p.Timestamp = p.State.Commit(len(p.Specs), X.Len())
	p.metrics.setColumns(assembled.Cols())
	p.writeDiagnostics(stageFit, p.diag.frames(stageFit,
		append(outs.named(), namedFrame{"output", assembled})))

	fields := []any{
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, X.Len(),
		log.FeaturesKey, assembled.Cols(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if state.Scaling.Scaler != nil {
		fields = append(fields, log.ScalerKey, state.Scaling.Scaler.Name())
	}
	p.logger.Info("Fit completed", fields...)
	return assembled, nil
}

// apply runs every active encoder in transform mode.
func (p *Preprocessor) apply(in *frame.Table) (pipelineOutputs, error) {
	var (
		outs pipelineOutputs
		err  error
		g    = p.groups
	)
	if grp := g.Get(feature.OneHot); grp.Active {
		if outs.oneHot, err = applyOneHot(in, grp, p.Fitted.OneHot); err != nil {
			return outs, err
		}
	}
	if grp := g.Get(feature.TextSimilarity); grp.Active {
		if outs.textSim, err = applyTextSimilarity(in, grp, p.Fitted.TextSimilarity); err != nil {
			return outs, err
		}
	}
	if grp := g.Get(feature.Hashing); grp.Active {
		if outs.hashed, err = applyHashing(in, grp, p.Fitted.Hashing); err != nil {
			return outs, err
		}
	}
	if grp := g.Get(feature.CountVectorizing); grp.Active {
		if outs.counts, err = applyVectors(in, grp, p.Fitted.Counts); err != nil {
			return outs, err
		}
	}
	if grp := g.Get(feature.TfIdf); grp.Active {
		if outs.tfidf, err = applyVectors(in, grp, p.Fitted.TfIdf); err != nil {
			return outs, err
		}
	}
	if grp := g.Get(feature.None); grp.Active {
		passthrough, err := numericColumns(in, grp.Columns())
		if err != nil {
			return outs, err
		}
		outs.passthrough = passthrough.Align(p.Fitted.Passthrough)
	}

	scaleIn, err := scaleInput(in, g, outs, p.Config)
	if err != nil {
		return outs, err
	}
	if outs.scaled, err = applyScaling(scaleIn, p.Fitted.Scaling); err != nil {
		return outs, err
	}
	return outs, nil
}

// matrix converts the assembled frame into the configured return form.
func (p *Preprocessor) matrix(f *frame.Frame) *FeatureMatrix {
	m := &FeatureMatrix{
		Index: f.Index(),
		NCols: f.Cols(),
		Data:  f.Dense(),
	}
	if p.Config.ReturnType != ReturnTypeNumPy {
		m.Columns = f.Columns()
	}
	return m
}

// Columns returns the fit-time output column names.
func (p *Preprocessor) Columns() []string {
	return append([]string(nil), p.Fitted.Output.Columns...)
}

// IsFitted reports whether Fit has completed successfully.
func (p *Preprocessor) IsFitted() bool {
	return p.State.IsFitted()
}

// Metadata describes a Preprocessor for listings and persistence.
type Metadata struct {
	ID        string
	Name      string
	State     model.ModelState
	Timestamp time.Time
	Columns   []string
}

// Metadata returns the identity, fit state and output layout.
func (p *Preprocessor) Metadata() Metadata {
	return Metadata{
		ID:        p.ID,
		Name:      p.Name,
		State:     p.State.GetState(),
		Timestamp: p.Timestamp,
		Columns:   p.Columns(),
	}
}

// Save は Preprocessor を <path>/<name>.gob に保存する
//
// 同名のファイルが存在し overwrite=false の場合は ModelExistsError を返す
func (p *Preprocessor) Save(name, path string, overwrite bool) (string, error) {
	p.Name = name
	saved, err := model.SaveNamed(p, name, path, overwrite)
	if err != nil {
		return "", err
	}
	p.logger.Info("Preprocessor saved",
		log.OperationKey, log.OperationSave,
		"path", saved,
	)
	return saved, nil
}

// Load は <path>/<name>.gob から Preprocessor を読み込む
//
// opts は WithLogger や WithRegisterer など実行時の依存の指定に使う
func Load(name, path string, opts ...Option) (*Preprocessor, error) {
	p := &Preprocessor{}
	if err := model.LoadNamed(p, name, path); err != nil {
		return nil, err
	}
	if p.State == nil {
		p.State = model.NewStateManager()
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	if err := p.configure(p.Specs); err != nil {
		return nil, errors.Wrapf(err, "failed to restore preprocessor %s", name)
	}
	p.logger.Info("Preprocessor loaded",
		log.OperationKey, log.OperationLoad,
		log.FeaturesKey, len(p.Fitted.Output.Columns),
	)
	return p, nil
}
