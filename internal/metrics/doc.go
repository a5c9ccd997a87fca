// Package metrics records conversion metrics with Prometheus.
//
// A CLI process is short-lived, so instead of serving /metrics the Recorder
// keeps a private registry and writes it in the node_exporter textfile
// format when a run ends:
//
//	rec := metrics.New()
//	rec.ObserveSegment("audio", 12*time.Second, nil)
//	rec.ObserveConversion("succeeded", time.Minute)
//	_ = rec.WriteTextfile("/var/lib/node_exporter/xspf2mp4.prom")
//
// All methods are safe on a nil *Recorder, which records nothing.
package metrics
