package telemetry

import "errors"

var (
	// ErrUnknownExporter indicates an unsupported trace exporter name.
	ErrUnknownExporter = errors.New("unknown exporter")

	// ErrExporterFailed indicates the exporter could not be created.
	ErrExporterFailed = errors.New("exporter failed")

	// ErrShutdownFailed indicates shutdown failed.
	ErrShutdownFailed = errors.New("shutdown failed")
)
