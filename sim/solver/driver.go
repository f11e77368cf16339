package solver

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/bubble-sim/bubble-sim/sim"
)

// StepObserver is called after every completed step. Returning an error
// stops the run.
type StepObserver func(res sim.StepResult) error

// Driver alternates solver steps and nucleation steps: each step the
// provider advances the field, then the nucleation model tags and re-seeds
// it. The re-seeded field feeds the next solver step.
type Driver struct {
	Nucleation *sim.Nucleation
	Provider   FieldProvider
	Observer   StepObserver // optional

	Renucleations int // total re-seeds across all steps
}

// NewDriver creates a Driver. Both the nucleation model and the provider are required.
func NewDriver(n *sim.Nucleation, p FieldProvider, obs StepObserver) (*Driver, error) {
	if n == nil {
		return nil, fmt.Errorf("driver: nil nucleation model")
	}
	if p == nil {
		return nil, fmt.Errorf("driver: nil field provider")
	}
	return &Driver{Nucleation: n, Provider: p, Observer: obs}, nil
}

// Run advances dfun for the given number of steps and returns the final field.
func (d *Driver) Run(dfun *mat.Dense, steps int) (*mat.Dense, error) {
	for s := 1; s <= steps; s++ {
		advanced, err := d.Provider.Advance(s, dfun)
		if err != nil {
			return dfun, fmt.Errorf("solver step %d: %w", s, err)
		}
		res, err := d.Nucleation.Step(advanced)
		if err != nil {
			return dfun, err
		}
		d.Renucleations += len(res.Renucleated)
		logrus.Infof("[step %05d] %d sites re-seeded", res.Step, len(res.Renucleated))
		if d.Observer != nil {
			if err := d.Observer(res); err != nil {
				return res.Dfun, fmt.Errorf("observer at step %d: %w", s, err)
			}
		}
		dfun = res.Dfun
	}
	logrus.Infof("run ended after %d steps, %d re-seeds", d.Nucleation.StepIndex(), d.Renucleations)
	return dfun, nil
}
