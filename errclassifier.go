// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import "github.com/bassosimone/errclass"

// ErrClassifier classifies errors into categorical strings for analysis.
//
// Implementations map errors to short, descriptive labels (e.g., "ETIMEDOUT",
// "ECONNREFUSED", "CommandError") that end up in the errClass log field.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
//
// This allows using simple functions as classifiers:
//
//	cfg.ErrClassifier = ErrClassifierFunc(errclass.New)
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier labels relay errors with their [ErrorKind] and
// delegates everything else to [errclass.New].
//
// A nil error is classified as the empty string.
var DefaultErrClassifier = ErrClassifierFunc(func(err error) string {
	if err == nil {
		return ""
	}
	switch kind := ErrorKind(err); kind {
	case "", KindConnectError:
		// connect errors are more useful with their errno label
		return errclass.New(err)
	default:
		return kind
	}
})
