package preprocessing

import (
	"encoding/gob"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/log"
)

func init() {
	// ScalerArgs の list 値を保存できるようにする
	gob.Register([]interface{}{})
}

// ReturnTypeNumPy drops column names from transform output.
const ReturnTypeNumPy = "np"

// Options holds the constructor-level configuration of a Preprocessor.
type Options struct {
	// ReturnType が "np" の場合は列名なしの行列を返す
	ReturnType string `mapstructure:"return_type"`
	// ScaleHashed はハッシュ列をスケーラーに通すかどうか
	ScaleHashed bool `mapstructure:"scale_hashed"`
	// ScaleVectors はカウント・TF-IDF列をスケーラーに通すかどうか
	ScaleVectors bool `mapstructure:"scale_vectors"`
	// Missing はスケーリング入力の欠損値ポリシー
	Missing MissingPolicy `mapstructure:"missing"`
	// Scaler はスケーラー名 (ScalerNames 参照)
	Scaler string `mapstructure:"scaler"`
	// ScalerArgs はスケーラーに渡すキーワード引数
	ScalerArgs feature.Kwargs `mapstructure:"scaler_args"`
	// LogFile が空でなければ各段階の診断情報を追記する
	LogFile string `mapstructure:"logfile"`
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		ReturnType:   ReturnTypeNumPy,
		ScaleHashed:  true,
		ScaleVectors: true,
		Missing:      MissingZeros,
		Scaler:       "StandardScaler",
		ScalerArgs:   feature.Kwargs{},
	}
}

// Validate checks the missing policy, the scaler name and its arguments.
func (o *Options) Validate() error {
	missing, err := ParseMissingPolicy(string(o.Missing))
	if err != nil {
		return err
	}
	o.Missing = missing
	if o.ScalerArgs == nil {
		o.ScalerArgs = feature.Kwargs{}
	}
	_, err = NewScaler(o.Scaler, o.ScalerArgs)
	return err
}

// Option is a function that configures a Preprocessor
type Option func(*Preprocessor)

// WithOptions replaces the whole configuration, e.g. one loaded by pkg/config
func WithOptions(opts Options) Option {
	return func(p *Preprocessor) {
		p.Config = opts
	}
}

// WithReturnType sets the output form; "np" drops column names
func WithReturnType(returnType string) Option {
	return func(p *Preprocessor) {
		p.Config.ReturnType = returnType
	}
}

// WithScaleHashed sets whether hashed columns feed the scaler
func WithScaleHashed(scale bool) Option {
	return func(p *Preprocessor) {
		p.Config.ScaleHashed = scale
	}
}

// WithScaleVectors sets whether count and TF-IDF columns feed the scaler
func WithScaleVectors(scale bool) Option {
	return func(p *Preprocessor) {
		p.Config.ScaleVectors = scale
	}
}

// WithMissing sets the missing-value policy of the scaling input
func WithMissing(policy string) Option {
	return func(p *Preprocessor) {
		p.Config.Missing = MissingPolicy(policy)
	}
}

// WithScaler selects the scaler by name and its keyword arguments
func WithScaler(name string, args feature.Kwargs) Option {
	return func(p *Preprocessor) {
		p.Config.Scaler = name
		p.Config.ScalerArgs = args
	}
}

// WithLogFile appends stage diagnostics to path and stdout
func WithLogFile(path string) Option {
	return func(p *Preprocessor) {
		p.Config.LogFile = path
	}
}

// WithLogger sets the structured logger
func WithLogger(logger log.Logger) Option {
	return func(p *Preprocessor) {
		p.logger = logger
	}
}

// WithRegisterer records fit and transform metrics in reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Preprocessor) {
		p.registerer = reg
	}
}
