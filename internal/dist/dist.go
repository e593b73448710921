// Package dist fits continuous distributions to water-year totals and draws
// synthetic totals from them. Families with closed-form or textbook estimators
// are fitted directly; the GEV family is fitted by numeric maximum likelihood.
package dist

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies a supported distribution family.
type Name string

const (
	Gamma         Name = "gamma"
	GEV           Name = "gev"
	LogNormal     Name = "lognorm"
	Exponential   Name = "exp"
	Weibull       Name = "weibull"
	Beta          Name = "beta"
	GenPareto     Name = "genpareto"
	PearsonIII    Name = "pearson3"
	LogPearsonIII Name = "logpearson3"
)

// Supported lists every known family, in the order reported by errors.
var Supported = []Name{Gamma, GEV, LogNormal, Exponential, Weibull, Beta, GenPareto, PearsonIII, LogPearsonIII}

// InvalidDistributionError reports an unknown family name.
type InvalidDistributionError struct {
	Name Name
}

func (e *InvalidDistributionError) Error() string {
	names := make([]string, len(Supported))
	for i, n := range Supported {
		names[i] = string(n)
	}
	return fmt.Sprintf("unknown distribution %q, must be one of [%s]", string(e.Name), strings.Join(names, ", "))
}

// ErrDomain indicates the input data violates a family's precondition, such
// as non-positive totals for a log-transformed fit.
var ErrDomain = errors.New("data outside distribution domain")

func valid(name Name) bool {
	for _, n := range Supported {
		if n == name {
			return true
		}
	}
	return false
}
