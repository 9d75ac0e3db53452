// Package metrics 提供证明流水线的 Prometheus 指标实现
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	metricsiface "github.com/weisyn/credproof/pkg/interfaces/infrastructure/metrics"
)

// 结果标签
const (
	resultSuccess = "success"
	resultError   = "error"
)

// PrometheusRecorder 基于 Prometheus 的证明指标记录器
type PrometheusRecorder struct {
	registry *prometheus.Registry

	setupTotal      *prometheus.CounterVec
	setupDuration   prometheus.Histogram
	proofTotal      *prometheus.CounterVec
	proofDuration   prometheus.Histogram
	verifyTotal     *prometheus.CounterVec
	verifyDuration  *prometheus.HistogramVec
	constraintCount prometheus.Gauge
}

var (
	_ metricsiface.ProofRecorder = (*PrometheusRecorder)(nil)
	_ metricsiface.Exporter      = (*PrometheusRecorder)(nil)
)

// NewPrometheusRecorder 在独立注册表上创建指标，同时注册 Go 运行时与进程指标
func NewPrometheusRecorder(namespace string) *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	// 证明生成通常在秒级，验证在毫秒级
	slowBuckets := []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}
	fastBuckets := []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

	return &PrometheusRecorder{
		registry: registry,
		setupTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credential",
				Name:      "setups_total",
				Help:      "Total number of trusted setups",
			},
			[]string{"result"},
		),
		setupDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "credential",
				Name:      "setup_duration_seconds",
				Help:      "Trusted setup duration in seconds",
				Buckets:   slowBuckets,
			},
		),
		proofTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credential",
				Name:      "proofs_total",
				Help:      "Total number of proof generation attempts",
			},
			[]string{"result"},
		),
		proofDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "credential",
				Name:      "proof_duration_seconds",
				Help:      "Proof generation duration in seconds",
				Buckets:   slowBuckets,
			},
		),
		verifyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credential",
				Name:      "verifications_total",
				Help:      "Total number of verifications by outcome",
			},
			[]string{"outcome"},
		),
		verifyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "credential",
				Name:      "verify_duration_seconds",
				Help:      "Verification duration in seconds",
				Buckets:   fastBuckets,
			},
			[]string{"outcome"},
		),
		constraintCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "credential",
				Name:      "circuit_constraints",
				Help:      "Number of constraints in the credential circuit",
			},
		),
	}
}

// Registry 返回指标注册表
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Export 采集注册表并以文本格式写出
func (r *PrometheusRecorder) Export(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("采集指标失败: %w", err)
	}
	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return fmt.Errorf("编码指标 %s 失败: %w", family.GetName(), err)
		}
	}
	return nil
}

// ObserveSetup 记录一次可信设置
func (r *PrometheusRecorder) ObserveSetup(d time.Duration, err error) {
	if err != nil {
		r.setupTotal.WithLabelValues(resultError).Inc()
		return
	}
	r.setupTotal.WithLabelValues(resultSuccess).Inc()
	r.setupDuration.Observe(d.Seconds())
}

// ObserveProof 记录一次证明生成
func (r *PrometheusRecorder) ObserveProof(d time.Duration, err error) {
	if err != nil {
		r.proofTotal.WithLabelValues(resultError).Inc()
		return
	}
	r.proofTotal.WithLabelValues(resultSuccess).Inc()
	r.proofDuration.Observe(d.Seconds())
}

// ObserveVerify 记录一次验证
func (r *PrometheusRecorder) ObserveVerify(d time.Duration, outcome metricsiface.VerifyOutcome) {
	r.verifyTotal.WithLabelValues(string(outcome)).Inc()
	r.verifyDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

// SetConstraintCount 记录电路约束数量
func (r *PrometheusRecorder) SetConstraintCount(count int) {
	r.constraintCount.Set(float64(count))
}
