package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics so that components can be handed a
// recording implementation in tests.
type API interface {
	// ReportBroken reports a component that broke in a way that needs attention.
	//
	// The `id` names the component that broke (`<struct or intf>.<method>`), not the
	// specific line that failed. Ids are lowercase, with underscores inside component
	// names and dashes inside method names, ex. `client.log-in`. Detail such as the
	// status code or the wrapped error goes into params.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that is not necessarily broken but may be worth
	// looking into. Ids follow the same rules as ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportInfo reports a notable event in the normal course of operation.
	ReportInfo(msg string, params ...any)

	// ReportDebug reports debug information that will be ignored in production.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current count of an event, counts are points of data
	// over time and should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI attaches a namespace to every report of the inner API, like a sub-logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportInfo(msg string, params ...any) {
	s.inner.ReportInfo(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
