package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig configures Glorot uniform initialization
type GlorotUConfig struct{ Gain float64 }

// Type returns GlorotU
func (g GlorotUConfig) Type() Type { return GlorotU }

// Create returns the Gorgonia Glorot uniform initializer
func (g GlorotUConfig) Create() G.InitWFn { return G.GlorotU(g.Gain) }

// GlorotNConfig configures Glorot normal initialization
type GlorotNConfig struct{ Gain float64 }

// Type returns GlorotN
func (g GlorotNConfig) Type() Type { return GlorotN }

// Create returns the Gorgonia Glorot normal initializer
func (g GlorotNConfig) Create() G.InitWFn { return G.GlorotN(g.Gain) }

// HeUConfig configures He uniform initialization
type HeUConfig struct{ Gain float64 }

// Type returns HeU
func (h HeUConfig) Type() Type { return HeU }

// Create returns the Gorgonia He uniform initializer
func (h HeUConfig) Create() G.InitWFn { return G.HeU(h.Gain) }

// HeNConfig configures He normal initialization
type HeNConfig struct{ Gain float64 }

// Type returns HeN
func (h HeNConfig) Type() Type { return HeN }

// Create returns the Gorgonia He normal initializer
func (h HeNConfig) Create() G.InitWFn { return G.HeN(h.Gain) }

// GaussianConfig configures drawing weights from a gaussian
// distribution
type GaussianConfig struct {
	Mean, StdDev float64
}

// Type returns Gaussian
func (c GaussianConfig) Type() Type { return Gaussian }

// Create returns the Gorgonia gaussian initializer
func (c GaussianConfig) Create() G.InitWFn {
	return G.Gaussian(c.Mean, c.StdDev)
}

// UniformConfig configures drawing weights uniformly from [Low, High)
type UniformConfig struct {
	Low, High float64
}

// Type returns Uniform
func (c UniformConfig) Type() Type { return Uniform }

// Create returns the Gorgonia uniform initializer
func (c UniformConfig) Create() G.InitWFn {
	return G.Uniform(c.Low, c.High)
}

// ConstantConfig configures setting every weight to Value
type ConstantConfig struct{ Value float64 }

// Type returns Constant
func (c ConstantConfig) Type() Type { return Constant }

// Create returns the Gorgonia constant initializer
func (c ConstantConfig) Create() G.InitWFn { return G.ValuesOf(c.Value) }

// ZeroesConfig configures setting every weight to zero
type ZeroesConfig struct{}

// Type returns Zeroes
func (ZeroesConfig) Type() Type { return Zeroes }

// Create returns the Gorgonia zeroes initializer
func (ZeroesConfig) Create() G.InitWFn { return G.Zeroes() }
