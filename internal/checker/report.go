package checker

import (
	"github.com/vouchrb/vouch/internal/printer"
)

// Result records one successfully attested (app, version) pair.
type Result struct {
	AppID         string
	Version       string
	SHA256        string
	AssertionID   string
	AttestationID string
}

// Failure records one app that could not be processed. Failures are
// non-fatal to the run; the caller decides whether to escalate.
type Failure struct {
	AppID string
	Err   error
}

// Report summarizes a whole run.
type Report struct {
	RunID    string
	Checked  []string
	Results  []Result
	Failures []Failure
}

// Failed reports whether any app failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Print writes the run summary in the operator log format.
func (r *Report) Print() {
	printer.Header("SUMMARY")
	printer.Info("Run ID: %s\n", r.RunID)
	printer.Info("Apps checked: %d\n", len(r.Checked))
	printer.Info("Events published: %d\n", len(r.Results)*2)

	if len(r.Results) > 0 {
		printer.Println()
		printer.Println("Published events:")
		for _, res := range r.Results {
			printer.Success("%s %s", res.AppID, res.Version)
			printer.Detail("Assertion:   %s", res.AssertionID)
			printer.Detail("Attestation: %s", res.AttestationID)
		}
	}

	if len(r.Failures) > 0 {
		printer.Println()
		for _, f := range r.Failures {
			printer.Failure("%s: %v", f.AppID, f.Err)
		}
	}
}
