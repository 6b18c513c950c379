package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PDFRenders counts PDF renders by result ("ok", "error").
var PDFRenders = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jobquote",
	Subsystem: "pdf",
	Name:      "renders_total",
	Help:      "Total PDF renders by result.",
}, []string{"result"})

// PDFRenderDuration tracks how long a single page takes to draw.
var PDFRenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "jobquote",
	Subsystem: "pdf",
	Name:      "render_seconds",
	Help:      "PDF render latency in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// PDFClippedRows counts layout rows dropped because they did not fit the page.
var PDFClippedRows = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "jobquote",
	Subsystem: "pdf",
	Name:      "clipped_rows_total",
	Help:      "Total layout rows clipped at the bottom of the page.",
})

// PhotoLoads counts individual photo fetches by result ("ok", "failed", "discarded").
var PhotoLoads = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jobquote",
	Subsystem: "photo",
	Name:      "loads_total",
	Help:      "Total photo loads by result.",
}, []string{"result"})
