// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	MissingSkip      = "skip"
	MissingPropagate = "propagate"
)

// Config is the configuration for feature extraction.
type Config struct {
	Columns  ColumnsConfig  `mapstructure:"columns"`
	Features FeaturesConfig `mapstructure:"features"`
	Subset   SubsetConfig   `mapstructure:"subset"`
	Output   OutputConfig   `mapstructure:"output"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// ColumnsConfig names the columns of the input table.
type ColumnsConfig struct {
	StudentId    string `mapstructure:"student_id" validate:"required"`
	Subject      string `mapstructure:"subject" validate:"required"`
	CourseNumber string `mapstructure:"course_number" validate:"required"`
	Section      string `mapstructure:"section" validate:"required"`
	Course       string `mapstructure:"course" validate:"required"`
	Feature      string `mapstructure:"feature" validate:"required"`
	Term         string `mapstructure:"term" validate:"required"`
}

type FeaturesConfig struct {
	Bins                    []float64 `mapstructure:"bins" validate:"min=2"`
	Jobs                    int       `mapstructure:"jobs" validate:"gte=0"`
	Separator               string    `mapstructure:"separator" validate:"required"`
	MeanLinkColumn          string    `mapstructure:"mean_link_column" validate:"required"`
	ClassmateMeanLinkColumn string    `mapstructure:"classmate_mean_link_column" validate:"required,nefield=MeanLinkColumn"`
	Missing                 string    `mapstructure:"missing" validate:"oneof=skip propagate"`
}

type SubsetConfig struct {
	Filter         string   `mapstructure:"filter"`
	StudentTermKey []string `mapstructure:"student_term_key" validate:"min=1"`
	StudentKey     []string `mapstructure:"student_key" validate:"min=1"`
}

type OutputConfig struct {
	Table       string `mapstructure:"table" validate:"required"`
	ParquetJobs int    `mapstructure:"parquet_jobs" validate:"gt=0"`
}

type StorageConfig struct {
	S3    S3Config        `mapstructure:"s3"`
	GCS   GCSConfig       `mapstructure:"gcs"`
	Azure AzureBlobConfig `mapstructure:"azure"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type GCSConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

type AzureBlobConfig struct {
	AccountName      string `mapstructure:"account_name"`
	AccountKey       string `mapstructure:"account_key"`
	ConnectionString string `mapstructure:"connection_string"`
	Endpoint         string `mapstructure:"endpoint"`
}

type TracingConfig struct {
	EnableTracing     bool    `mapstructure:"enable_tracing"`
	Exporter          string  `mapstructure:"exporter" validate:"oneof=zipkin otlp otlphttp"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	Sampler           string  `mapstructure:"sampler" validate:"oneof=always never ratio"`
	Ratio             float64 `mapstructure:"ratio" validate:"gte=0,lte=1"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Columns: ColumnsConfig{
			StudentId:    "STDNT_ID",
			Subject:      "SBJCT_CD",
			CourseNumber: "CATLG_NBR",
			Section:      "CLASS_SCTN_CD",
			Course:       "COURSE",
			Feature:      "PREV_TERM_CUM_GPA",
			Term:         "TERM_CD",
		},
		Features: FeaturesConfig{
			Bins:                    []float64{0, 1, 2, 3, 4, 100},
			Jobs:                    0,
			Separator:               "_",
			MeanLinkColumn:          "ML_GPA",
			ClassmateMeanLinkColumn: "ML_NBR_GPA",
			Missing:                 MissingSkip,
		},
		Subset: SubsetConfig{
			StudentTermKey: []string{"STDNT_ID", "TERM_CD"},
			StudentKey:     []string{"STDNT_ID"},
		},
		Output: OutputConfig{
			Table:       "coenrollment_features",
			ParquetJobs: 4,
		},
		Tracing: TracingConfig{
			Exporter: "zipkin",
			Sampler:  "always",
			Ratio:    1,
		},
	}
}

func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Trace(err)
	}
	for i, v := range config.Features.Bins {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NotValidf("bin cut point %v", v)
		}
		if i > 0 && v <= config.Features.Bins[i-1] {
			return errors.NotValidf("bin cut points %v (not strictly increasing)", config.Features.Bins)
		}
	}
	return nil
}

func (config *TracingConfig) NewTracerProvider() (trace.TracerProvider, error) {
	if !config.EnableTracing {
		return noop.NewTracerProvider(), nil
	}

	var exporter tracesdk.SpanExporter
	var err error
	switch config.Exporter {
	case "zipkin":
		exporter, err = zipkin.New(config.CollectorEndpoint)
	case "otlp":
		client := otlptracegrpc.NewClient(otlptracegrpc.WithInsecure(), otlptracegrpc.WithEndpoint(config.CollectorEndpoint))
		exporter, err = otlptrace.New(context.TODO(), client)
	case "otlphttp":
		client := otlptracehttp.NewClient(otlptracehttp.WithInsecure(), otlptracehttp.WithEndpoint(config.CollectorEndpoint))
		exporter, err = otlptrace.New(context.TODO(), client)
	default:
		return nil, errors.NotSupportedf("exporter %s", config.Exporter)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}

	var sampler tracesdk.Sampler
	switch config.Sampler {
	case "always":
		sampler = tracesdk.AlwaysSample()
	case "never":
		sampler = tracesdk.NeverSample()
	case "ratio":
		sampler = tracesdk.TraceIDRatioBased(config.Ratio)
	default:
		return nil, errors.NotSupportedf("sampler %s", config.Sampler)
	}

	return tracesdk.NewTracerProvider(
		tracesdk.WithSampler(sampler),
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(resource.NewSchemaless(attribute.String("service.name", "coenroll"))),
	), nil
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [columns]
	viper.SetDefault("columns.student_id", defaultConfig.Columns.StudentId)
	viper.SetDefault("columns.subject", defaultConfig.Columns.Subject)
	viper.SetDefault("columns.course_number", defaultConfig.Columns.CourseNumber)
	viper.SetDefault("columns.section", defaultConfig.Columns.Section)
	viper.SetDefault("columns.course", defaultConfig.Columns.Course)
	viper.SetDefault("columns.feature", defaultConfig.Columns.Feature)
	viper.SetDefault("columns.term", defaultConfig.Columns.Term)
	// [features]
	viper.SetDefault("features.bins", defaultConfig.Features.Bins)
	viper.SetDefault("features.jobs", defaultConfig.Features.Jobs)
	viper.SetDefault("features.separator", defaultConfig.Features.Separator)
	viper.SetDefault("features.mean_link_column", defaultConfig.Features.MeanLinkColumn)
	viper.SetDefault("features.classmate_mean_link_column", defaultConfig.Features.ClassmateMeanLinkColumn)
	viper.SetDefault("features.missing", defaultConfig.Features.Missing)
	// [subset]
	viper.SetDefault("subset.student_term_key", defaultConfig.Subset.StudentTermKey)
	viper.SetDefault("subset.student_key", defaultConfig.Subset.StudentKey)
	// [output]
	viper.SetDefault("output.table", defaultConfig.Output.Table)
	viper.SetDefault("output.parquet_jobs", defaultConfig.Output.ParquetJobs)
	// [tracing]
	viper.SetDefault("tracing.exporter", defaultConfig.Tracing.Exporter)
	viper.SetDefault("tracing.sampler", defaultConfig.Tracing.Sampler)
	viper.SetDefault("tracing.ratio", defaultConfig.Tracing.Ratio)
}

type configBinding struct {
	key string
	env string
}

// LoadConfig loads configuration from toml file. An empty path loads defaults and
// environment variables only.
func LoadConfig(path string) (*Config, error) {
	// set default config
	setDefault()

	// bind environment bindings
	bindings := []configBinding{
		{"features.bins", "COENROLL_FEATURES_BINS"},
		{"features.jobs", "COENROLL_FEATURES_JOBS"},
		{"features.missing", "COENROLL_FEATURES_MISSING"},
		{"columns.feature", "COENROLL_COLUMNS_FEATURE"},
		{"output.table", "COENROLL_OUTPUT_TABLE"},
		{"storage.s3.endpoint", "S3_ENDPOINT"},
		{"storage.s3.access_key_id", "S3_ACCESS_KEY_ID"},
		{"storage.s3.secret_access_key", "S3_SECRET_ACCESS_KEY"},
		{"storage.gcs.credentials_file", "GCS_CREDENTIALS_FILE"},
		{"storage.azure.account_name", "AZURE_STORAGE_ACCOUNT"},
		{"storage.azure.account_key", "AZURE_STORAGE_KEY"},
		{"storage.azure.connection_string", "AZURE_STORAGE_CONNECTION_STRING"},
	}
	for _, binding := range bindings {
		if err := viper.BindEnv(binding.key, binding.env); err != nil {
			return nil, errors.Trace(err)
		}
	}

	// load config file
	if path != "" {
		viper.SetConfigType("toml")
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}

	// unmarshal config file
	var conf Config
	if err := viper.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToFloatSliceHookFunc(","),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	conf.Columns.trim()
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// stringToFloatSliceHookFunc decodes a separated list such as the value of
// COENROLL_FEATURES_BINS=0,2,4 into a float slice.
func stringToFloatSliceHookFunc(sep string) mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]float64(nil)) {
			return data, nil
		}
		raw := strings.Trim(strings.TrimSpace(reflect.ValueOf(data).String()), "[]")
		if raw == "" {
			return []float64{}, nil
		}
		parts := strings.Split(raw, sep)
		values := make([]float64, len(parts))
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, errors.NotValidf("number %q", part)
			}
			values[i] = v
		}
		return values, nil
	}
}

func (c *ColumnsConfig) trim() {
	for _, p := range []*string{&c.StudentId, &c.Subject, &c.CourseNumber, &c.Section, &c.Course, &c.Feature, &c.Term} {
		*p = strings.TrimSpace(*p)
	}
}
