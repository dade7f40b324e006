package calculator

import (
	"golang.org/x/sync/errgroup"

	"MarketSignal/internal/model"
)

// RuleMAPeriod is the period of the SMA and EMA the signal rules compare.
// It does not follow Params, which only shape the displayed averages.
const RuleMAPeriod = 10

// Params configure every indicator of an IndicatorSet.
type Params struct {
	SMAPeriod       int              `yaml:"sma_period"`
	EMAPeriod       int              `yaml:"ema_period"`
	MACD            MACDParams       `yaml:"macd"`
	RSIPeriod       int              `yaml:"rsi_period"`
	BollingerPeriod int              `yaml:"bollinger_period"`
	BollingerStd    float64          `yaml:"bollinger_std"`
	Stochastic      StochasticParams `yaml:"stochastic"`
	WilliamsPeriod  int              `yaml:"williams_period"`
}

// DefaultParams returns the periods the signal rules are defined over.
func DefaultParams() Params {
	return Params{
		SMAPeriod:       10,
		EMAPeriod:       10,
		MACD:            DefaultMACD,
		RSIPeriod:       14,
		BollingerPeriod: 20,
		BollingerStd:    2,
		Stochastic:      DefaultStochastic,
		WilliamsPeriod:  14,
	}
}

// Validate checks every period up front.
func (p Params) Validate() error {
	checks := []struct {
		name   string
		period int
	}{
		{"sma period", p.SMAPeriod},
		{"ema period", p.EMAPeriod},
		{"rsi period", p.RSIPeriod},
		{"bollinger period", p.BollingerPeriod},
		{"williams period", p.WilliamsPeriod},
	}
	for _, c := range checks {
		if err := checkPeriod(c.name, c.period); err != nil {
			return err
		}
	}
	if err := p.MACD.validate(); err != nil {
		return err
	}
	return p.Stochastic.validate()
}

// Compute validates p and then computes every indicator over ts, one
// goroutine per indicator. The source series is only read.
func Compute(ts *model.TimeSeries, p Params) (*model.IndicatorSet, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	set := &model.IndicatorSet{Source: ts}
	var g errgroup.Group
	g.Go(func() (err error) {
		set.SMA, err = SMA(ts, p.SMAPeriod)
		return err
	})
	g.Go(func() (err error) {
		set.EMA, err = EMA(ts, p.EMAPeriod)
		return err
	})
	g.Go(func() (err error) {
		set.RuleSMA, err = SMA(ts, RuleMAPeriod)
		return err
	})
	g.Go(func() (err error) {
		set.RuleEMA, err = EMA(ts, RuleMAPeriod)
		return err
	})
	g.Go(func() (err error) {
		set.MACD, err = MACD(ts, p.MACD)
		return err
	})
	g.Go(func() (err error) {
		set.RSI, err = RSI(ts, p.RSIPeriod)
		return err
	})
	g.Go(func() (err error) {
		set.Bollinger, err = Bollinger(ts, p.BollingerPeriod, p.BollingerStd)
		return err
	})
	g.Go(func() (err error) {
		set.Stochastic, err = StochasticOscillator(ts, p.Stochastic)
		return err
	})
	g.Go(func() (err error) {
		set.WilliamsR, err = WilliamsR(ts, p.WilliamsPeriod)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}
