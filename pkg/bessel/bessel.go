// Package bessel evaluates exponentially scaled modified Bessel functions of
// real non-negative order and complex argument in the closed right half plane.
//
// The scaled values are
//
//	Ie(α, z) = exp(-z)·I_α(z)
//	Ke(α, z) = exp(z)·K_α(z)
//
// which stay representable for the large arguments produced by Laplace
// inversion contours. Evaluation follows Temme's method: K_μ and K_{μ+1} for
// |μ| ≤ 1/2 from a series (|z| ≤ 2) or Steed's continued fraction, upward
// recurrence for K, a continued fraction for the ratio I_{α+1}/I_α with
// downward recurrence, and the Wronskian to normalize I. Arguments with
// |z| ≥ 25 use the Hankel asymptotic expansions.
package bessel

import (
	"math"
	"math/cmplx"

	"wellflow/pkg/serrors"
)

const (
	eps      = 1e-16
	cfTol    = 1e-15
	tiny     = 1e-300
	maxIter  = 10000
	seriesR  = 2.0
	asymptR  = 25.0
	euler    = 0.5772156649015329
	maxOrder = 64
)

// Pair holds scaled values of two consecutive orders α and α+1.
type Pair struct {
	// I is exp(-z)·I_α(z).
	I complex128
	// I1 is exp(-z)·I_{α+1}(z).
	I1 complex128
	// K is exp(z)·K_α(z).
	K complex128
	// K1 is exp(z)·K_{α+1}(z).
	K1 complex128
}

// Scaled returns exponentially scaled I and K of orders alpha and alpha+1 at z.
// alpha must be in [0, 64]; z must be non-zero with Re z ≥ 0.
func Scaled(alpha float64, z complex128) (Pair, error) {
	if math.IsNaN(alpha) || alpha < 0 || alpha > maxOrder {
		return Pair{}, serrors.With(serrors.ErrDomain, "bessel order must be in [0, %d], got %g", maxOrder, alpha)
	}
	if z == 0 || real(z) < 0 || cmplx.IsNaN(z) || cmplx.IsInf(z) {
		return Pair{}, serrors.With(serrors.ErrDomain, "bessel argument must be finite, non-zero with Re z >= 0, got %v", z)
	}

	if cmplx.Abs(z) >= asymptR {
		return asymptotic(alpha, z), nil
	}

	n := int(alpha + 0.5)
	mu := alpha - float64(n)

	var kmu, kmu1 complex128
	if cmplx.Abs(z) <= seriesR {
		kmu, kmu1 = temme(mu, z)
	} else {
		var err error
		kmu, kmu1, err = steed(mu, z)
		if err != nil {
			return Pair{}, err
		}
	}

	// upward recurrence K_{k+1} = (2k/z)·K_k + K_{k-1}
	k0, k1 := kmu, kmu1
	for i := 1; i <= n; i++ {
		k0, k1 = k1, complex(2*(mu+float64(i)), 0)/z*k1+k0
	}

	// ratio r_α = I_{α+1}/I_α, then downward to r_μ collecting I_α/I_μ
	ra, err := ratioI(alpha, z)
	if err != nil {
		return Pair{}, err
	}
	rk := ra
	prod := complex(1, 0)
	for i := n; i >= 1; i-- {
		order := mu + float64(i)
		rk = 1 / (complex(2*order, 0)/z + rk)
		prod *= rk
	}
	// Wronskian I_μ·K_{μ+1} + I_{μ+1}·K_μ = 1/z
	imu := 1 / (z * (kmu1 + rk*kmu))
	ia := imu * prod

	return Pair{I: ia, I1: ia * ra, K: k0, K1: k1}, nil
}

// ratioI evaluates I_{α+1}(z)/I_α(z) by the continued fraction
// 1/(2(α+1)/z + 1/(2(α+2)/z + ...)) using the modified Lentz method.
func ratioI(alpha float64, z complex128) (complex128, error) {
	zi := 1 / z
	f := complex(tiny, 0)
	c := f
	d := complex(0, 0)
	for k := 1; k <= maxIter; k++ {
		b := complex(2*(alpha+float64(k)), 0) * zi
		d = b + d
		if cmplx.Abs(d) < tiny {
			d = tiny
		}
		c = b + 1/c
		if cmplx.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		delta := c * d
		f *= delta
		if cmplx.Abs(delta-1) < cfTol {
			return f, nil
		}
	}

	return 0, serrors.With(serrors.ErrConvergence, "continued fraction for I ratio did not converge at order %g, z=%v", alpha, z)
}

// temme returns scaled K_μ and K_{μ+1} for |μ| ≤ 1/2 and |z| ≤ 2 from
// Temme's series.
func temme(mu float64, z complex128) (complex128, complex128) {
	x2 := z / 2
	pimu := math.Pi * mu
	fact := 1.0
	if math.Abs(pimu) >= eps {
		fact = pimu / math.Sin(pimu)
	}
	d := -cmplx.Log(x2)
	e := complex(mu, 0) * d
	fact2 := complex(1, 0)
	if cmplx.Abs(e) >= eps {
		fact2 = cmplx.Sinh(e) / e
	}
	gam1, gam2, gampl, gammi := gammaSeries(mu)

	ff := complex(fact, 0) * (complex(gam1, 0)*cmplx.Cosh(e) + complex(gam2, 0)*fact2*d)
	sum := ff
	ee := cmplx.Exp(e)
	p := 0.5 * ee / complex(gampl, 0)
	q := 0.5 / (ee * complex(gammi, 0))
	c := complex(1, 0)
	dd := x2 * x2
	sum1 := p
	mu2 := mu * mu
	for i := 1; i <= maxIter; i++ {
		fi := float64(i)
		ff = (complex(fi, 0)*ff + p + q) / complex(fi*fi-mu2, 0)
		c *= dd / complex(fi, 0)
		p /= complex(fi-mu, 0)
		q /= complex(fi+mu, 0)
		del := c * ff
		sum += del
		del1 := c * (p - complex(fi, 0)*ff)
		sum1 += del1
		if cmplx.Abs(del) < cmplx.Abs(sum)*eps {
			break
		}
	}

	scale := cmplx.Exp(z)

	return sum * scale, sum1 * 2 / z * scale
}

// steed returns scaled K_μ and K_{μ+1} for |μ| ≤ 1/2 and |z| > 2 from
// Steed's continued fraction CF2.
func steed(mu float64, z complex128) (complex128, complex128, error) {
	b := 2 * (1 + z)
	d := 1 / b
	h := d
	delh := d
	q1 := complex(0, 0)
	q2 := complex(1, 0)
	a1 := 0.25 - mu*mu
	q := complex(a1, 0)
	c := complex(a1, 0)
	a := -a1
	s := 1 + q*delh
	for i := 2; ; i++ {
		if i > maxIter {
			return 0, 0, serrors.With(serrors.ErrConvergence, "continued fraction for K did not converge at z=%v", z)
		}
		a -= float64(2 * (i - 1))
		c = -complex(a, 0) * c / complex(float64(i), 0)
		qnew := (q1 - b*q2) / complex(a, 0)
		q1 = q2
		q2 = qnew
		q += c * qnew
		b += 2
		d = 1 / (b + complex(a, 0)*d)
		delh = (b*d - 1) * delh
		h += delh
		dels := q * delh
		s += dels
		if cmplx.Abs(dels) < cmplx.Abs(s)*eps {
			break
		}
	}
	h = complex(a1, 0) * h
	kmu := cmplx.Sqrt(math.Pi/(2*z)) / s
	kmu1 := kmu * (complex(mu+0.5, 0) + z - h) / z

	return kmu, kmu1, nil
}

// asymptotic evaluates scaled I and K of orders α, α+1 from the Hankel
// expansions, valid for |z| ≥ 25 with Re z ≥ 0.
func asymptotic(alpha float64, z complex128) Pair {
	ka, kSum := hankelSums(alpha, z)
	ka1, kSum1 := hankelSums(alpha+1, z)

	kpre := cmplx.Sqrt(math.Pi / (2 * z))
	ipre := 1 / cmplx.Sqrt(2*math.Pi*z)

	// second exponential term of I, branch chosen by the sign of Im z
	sign := 1.0
	if imag(z) < 0 {
		sign = -1
	}
	e2 := cmplx.Exp(-2 * z)
	tail := func(order float64, sum complex128) complex128 {
		return complex(0, sign) * cmplx.Exp(complex(0, sign*order*math.Pi)) * e2 * sum
	}

	return Pair{
		I:  ipre * (ka + tail(alpha, kSum)),
		I1: ipre * (ka1 + tail(alpha+1, kSum1)),
		K:  kpre * kSum,
		K1: kpre * kSum1,
	}
}

// hankelSums returns Σ(-1)^k a_k/z^k and Σ a_k/z^k truncated at the smallest term.
func hankelSums(alpha float64, z complex128) (complex128, complex128) {
	m := 4 * alpha * alpha
	alt := complex(1, 0)
	pos := complex(1, 0)
	term := complex(1, 0)
	prev := math.Inf(1)
	for k := 1; k < 200; k++ {
		odd := float64(2*k - 1)
		term *= complex((m-odd*odd)/(8*float64(k)), 0) / z
		mag := cmplx.Abs(term)
		if mag > prev {
			break
		}
		prev = mag
		pos += term
		if k%2 == 1 {
			alt -= term
		} else {
			alt += term
		}
		if mag < eps*cmplx.Abs(pos) {
			break
		}
	}

	return alt, pos
}

// rgamCoefficients are the coefficients of the power series of 1/Γ(x)
// (Abramowitz & Stegun 6.1.34), starting at the x^1 term.
var rgamCoefficients = [...]float64{ //nolint: gochecknoglobals
	1.0,
	euler,
	-0.6558780715202538,
	-0.0420026350340952,
	0.1665386113822915,
	-0.0421977345555443,
	-0.0096219715278770,
	0.0072189432466630,
	-0.0011651675918591,
	-0.0002152416741149,
	0.0001280502823882,
	-0.0000201348547807,
	-0.0000012504934821,
	0.0000011330272320,
	-0.0000002056338417,
	0.0000000061160950,
	0.0000000050020075,
	-0.0000000011812746,
	0.0000000001043427,
	0.0000000000077823,
	-0.0000000000036968,
	0.0000000000005100,
}

// gammaSeries returns Temme's gam1, gam2 and 1/Γ(1+μ), 1/Γ(1-μ) for |μ| ≤ 1/2.
func gammaSeries(mu float64) (gam1, gam2, gampl, gammi float64) {
	mu2 := mu * mu
	pow := 1.0
	for i := 0; i+1 < len(rgamCoefficients); i += 2 {
		gam2 += rgamCoefficients[i] * pow
		gam1 -= rgamCoefficients[i+1] * pow
		pow *= mu2
	}
	gampl = gam2 - mu*gam1
	gammi = gam2 + mu*gam1

	return gam1, gam2, gampl, gammi
}
