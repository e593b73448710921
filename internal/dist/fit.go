package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// Fit estimates the parameters of the named family from a sample. Parameter
// order per family:
//
//	gamma       [shape, rate]
//	gev         [shape, location, scale]
//	lognorm     [mu, sigma] of the natural log
//	exp         [rate]
//	weibull     [shape, scale]
//	beta        [alpha, beta, scale] on support [0, scale]
//	genpareto   [shape, location, scale]
//	pearson3    [skew, location, scale]
//	logpearson3 [skew, location, scale] of the base-10 log
func Fit(samples []float64, name Name) ([]float64, error) {
	if !valid(name) {
		return nil, &InvalidDistributionError{Name: name}
	}
	if len(samples) < 3 {
		return nil, fmt.Errorf("need at least 3 samples to fit %s, have %d", name, len(samples))
	}

	switch name {
	case Gamma:
		return fitGamma(samples)
	case GEV:
		return fitGEV(samples)
	case LogNormal:
		return fitLogNormal(samples)
	case Exponential:
		return fitExponential(samples)
	case Weibull:
		return fitWeibull(samples)
	case Beta:
		return fitBeta(samples)
	case GenPareto:
		return fitGenPareto(samples)
	case PearsonIII:
		return fitPearsonIII(samples), nil
	case LogPearsonIII:
		logs, err := log10Samples(samples)
		if err != nil {
			return nil, err
		}
		return fitPearsonIII(logs), nil
	}
	return nil, &InvalidDistributionError{Name: name}
}

func requirePositive(samples []float64, name Name) error {
	for _, v := range samples {
		if v <= 0 {
			return fmt.Errorf("%s requires strictly positive samples, found %g: %w", name, v, ErrDomain)
		}
	}
	return nil
}

func log10Samples(samples []float64) ([]float64, error) {
	if err := requirePositive(samples, LogPearsonIII); err != nil {
		return nil, err
	}
	logs := make([]float64, len(samples))
	for i, v := range samples {
		logs[i] = math.Log10(v)
	}
	return logs, nil
}

// fitGamma runs maximum likelihood: the Minka closed-form start followed by
// Newton steps on the shape, with the rate recovered from the mean.
func fitGamma(samples []float64) ([]float64, error) {
	if err := requirePositive(samples, Gamma); err != nil {
		return nil, err
	}
	mean := stat.Mean(samples, nil)
	meanLog := 0.0
	for _, v := range samples {
		meanLog += math.Log(v)
	}
	meanLog /= float64(len(samples))

	s := math.Log(mean) - meanLog
	if s <= 0 {
		return nil, fmt.Errorf("degenerate sample for gamma fit (all values equal): %w", ErrDomain)
	}
	shape := (3 - s + math.Sqrt((s-3)*(s-3)+24*s)) / (12 * s)
	for i := 0; i < 50; i++ {
		f := math.Log(shape) - mathext.Digamma(shape) - s
		df := 1/shape - trigamma(shape)
		next := shape - f/df
		if next <= 0 {
			next = shape / 2
		}
		if math.Abs(next-shape) < 1e-12*shape {
			shape = next
			break
		}
		shape = next
	}
	return []float64{shape, shape / mean}, nil
}

// trigamma approximates the derivative of the digamma function with a central
// difference; precision well beyond what the Newton refinement needs.
func trigamma(x float64) float64 {
	const h = 1e-5
	return (mathext.Digamma(x+h) - mathext.Digamma(x-h)) / (2 * h)
}

func fitLogNormal(samples []float64) ([]float64, error) {
	if err := requirePositive(samples, LogNormal); err != nil {
		return nil, err
	}
	logs := make([]float64, len(samples))
	for i, v := range samples {
		logs[i] = math.Log(v)
	}
	mu := stat.Mean(logs, nil)
	ss := 0.0
	for _, v := range logs {
		ss += (v - mu) * (v - mu)
	}
	sigma := math.Sqrt(ss / float64(len(logs)))
	if sigma == 0 {
		return nil, fmt.Errorf("degenerate sample for lognorm fit (all values equal): %w", ErrDomain)
	}
	return []float64{mu, sigma}, nil
}

func fitExponential(samples []float64) ([]float64, error) {
	if err := requirePositive(samples, Exponential); err != nil {
		return nil, err
	}
	return []float64{1 / stat.Mean(samples, nil)}, nil
}

// fitWeibull runs maximum likelihood with Newton iteration on the shape.
func fitWeibull(samples []float64) ([]float64, error) {
	if err := requirePositive(samples, Weibull); err != nil {
		return nil, err
	}
	n := float64(len(samples))
	meanLog := 0.0
	for _, v := range samples {
		meanLog += math.Log(v)
	}
	meanLog /= n

	k := 1.0
	for i := 0; i < 100; i++ {
		var sk, skl, skl2 float64
		for _, v := range samples {
			xk := math.Pow(v, k)
			lx := math.Log(v)
			sk += xk
			skl += xk * lx
			skl2 += xk * lx * lx
		}
		f := skl/sk - 1/k - meanLog
		df := (skl2*sk-skl*skl)/(sk*sk) + 1/(k*k)
		next := k - f/df
		if next <= 0 {
			next = k / 2
		}
		if math.Abs(next-k) < 1e-12*k {
			k = next
			break
		}
		k = next
	}

	sk := 0.0
	for _, v := range samples {
		sk += math.Pow(v, k)
	}
	scale := math.Pow(sk/n, 1/k)
	return []float64{k, scale}, nil
}

// fitGEV minimizes the negative log likelihood with Nelder-Mead, starting
// from Gumbel moment estimates and a mildly heavy tail.
func fitGEV(samples []float64) ([]float64, error) {
	mean := stat.Mean(samples, nil)
	sd := stat.StdDev(samples, nil)
	if sd == 0 {
		return nil, fmt.Errorf("degenerate sample for gev fit (all values equal): %w", ErrDomain)
	}
	scale0 := sd * math.Sqrt(6) / math.Pi
	loc0 := mean - 0.5772156649*scale0

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return gevNLL(samples, x[0], x[1], math.Exp(x[2]))
		},
	}
	best, err := optimize.Minimize(problem, []float64{0.1, loc0, math.Log(scale0)}, nil, &optimize.NelderMead{})
	if err != nil && best == nil {
		return nil, fmt.Errorf("gev likelihood optimization failed: %w", err)
	}
	if math.IsInf(best.F, 0) || math.IsNaN(best.F) {
		return nil, fmt.Errorf("gev likelihood did not converge on this sample: %w", ErrDomain)
	}
	return []float64{best.X[0], best.X[1], math.Exp(best.X[2])}, nil
}

func gevNLL(samples []float64, shape, loc, scale float64) float64 {
	if scale <= 0 {
		return math.Inf(1)
	}
	n := float64(len(samples))
	nll := n * math.Log(scale)
	for _, v := range samples {
		z := (v - loc) / scale
		if math.Abs(shape) < 1e-8 {
			nll += z + math.Exp(-z)
			continue
		}
		t := 1 + shape*z
		if t <= 0 {
			return math.Inf(1)
		}
		nll += (1 + 1/shape) * math.Log(t)
		nll += math.Pow(t, -1/shape)
	}
	return nll
}

// fitBeta uses method-of-moments on the sample scaled to (0,1) by a support
// slightly above the observed maximum.
func fitBeta(samples []float64) ([]float64, error) {
	for _, v := range samples {
		if v < 0 {
			return nil, fmt.Errorf("beta requires non-negative samples, found %g: %w", v, ErrDomain)
		}
	}
	scale := floats.Max(samples) * (1 + 1e-9)
	if scale == 0 {
		return nil, fmt.Errorf("degenerate sample for beta fit (all values zero): %w", ErrDomain)
	}
	scaled := make([]float64, len(samples))
	for i, v := range samples {
		scaled[i] = v / scale
	}
	m := stat.Mean(scaled, nil)
	v := populationVariance(scaled, m)
	if v == 0 {
		return nil, fmt.Errorf("degenerate sample for beta fit (all values equal): %w", ErrDomain)
	}
	common := m*(1-m)/v - 1
	if common <= 0 {
		return nil, fmt.Errorf("sample variance too large for a beta fit: %w", ErrDomain)
	}
	return []float64{m * common, (1 - m) * common, scale}, nil
}

// fitGenPareto uses method-of-moments on excesses over the sample minimum.
func fitGenPareto(samples []float64) ([]float64, error) {
	loc := floats.Min(samples)
	excess := make([]float64, len(samples))
	for i, v := range samples {
		excess[i] = v - loc
	}
	m := stat.Mean(excess, nil)
	v := populationVariance(excess, m)
	if v == 0 || m == 0 {
		return nil, fmt.Errorf("degenerate sample for genpareto fit: %w", ErrDomain)
	}
	r := m * m / v
	shape := 0.5 * (1 - r)
	scale := 0.5 * m * (r + 1)
	return []float64{shape, loc, scale}, nil
}

// fitPearsonIII uses the standard hydrologic moment estimators: sample skew,
// mean, and standard deviation.
func fitPearsonIII(samples []float64) []float64 {
	return []float64{
		stat.Skew(samples, nil),
		stat.Mean(samples, nil),
		stat.StdDev(samples, nil),
	}
}

func populationVariance(samples []float64, mean float64) float64 {
	ss := 0.0
	for _, v := range samples {
		ss += (v - mean) * (v - mean)
	}
	return ss / float64(len(samples))
}
