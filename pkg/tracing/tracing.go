package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pg-sharding/shardproxy/pkg/config"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerlog "github.com/uber/jaeger-client-go/log"
	"github.com/uber/jaeger-lib/metrics"
)

const defaultServiceName = "shardproxy"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitJaegerTracer installs the global opentracing tracer. Without a
// configured jaeger url the global no-op tracer stays in place.
func InitJaegerTracer(cfg config.JaegerCfg) (io.Closer, error) {
	if cfg.JaegerUrl == "" {
		return nopCloser{}, nil
	}
	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}

	jcfg := jaegercfg.Configuration{
		ServiceName: name,
		Sampler: &jaegercfg.SamplerConfig{
			Type:              "const",
			Param:             1,
			SamplingServerURL: cfg.JaegerUrl,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans: false,
		},
		Gen128Bit: true,
		Tags: []opentracing.Tag{
			{Key: "span.kind", Value: "server"},
		},
	}

	return jcfg.InitGlobalTracer(
		name,
		jaegercfg.Logger(jaegerlog.StdLogger),
		jaegercfg.Metrics(metrics.NullFactory),
	)
}
