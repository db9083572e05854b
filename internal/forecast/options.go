package forecast

import (
	"errors"
	"fmt"
)

// SeasonalityMode selects whether a seasonal component is fitted.
type SeasonalityMode string

const (
	// SeasonalityAuto enables the component when the history is long enough.
	SeasonalityAuto SeasonalityMode = "auto"
	SeasonalityOn   SeasonalityMode = "on"
	SeasonalityOff  SeasonalityMode = "off"
)

// ParseSeasonalityMode accepts auto, on, off and the empty string (auto).
func ParseSeasonalityMode(s string) (SeasonalityMode, error) {
	switch SeasonalityMode(s) {
	case "", SeasonalityAuto:
		return SeasonalityAuto, nil
	case SeasonalityOn, SeasonalityOff:
		return SeasonalityMode(s), nil
	}
	return "", fmt.Errorf("unknown seasonality mode %q (want auto, on or off)", s)
}

// Options are the model hyperparameters.
type Options struct {
	NChangepoints         int             `yaml:"n_changepoints"`
	ChangepointRange      float64         `yaml:"changepoint_range"`
	ChangepointPriorScale float64         `yaml:"changepoint_prior_scale"`
	SeasonalityPriorScale float64         `yaml:"seasonality_prior_scale"`
	YearlySeasonality     SeasonalityMode `yaml:"yearly_seasonality"`
	WeeklySeasonality     SeasonalityMode `yaml:"weekly_seasonality"`
	YearlyOrder           int             `yaml:"yearly_order"`
	WeeklyOrder           int             `yaml:"weekly_order"`
	IntervalWidth         float64         `yaml:"interval_width"`
}

// DefaultOptions mirrors the common Prophet defaults.
func DefaultOptions() Options {
	return Options{
		NChangepoints:         25,
		ChangepointRange:      0.8,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
		YearlySeasonality:     SeasonalityAuto,
		WeeklySeasonality:     SeasonalityAuto,
		YearlyOrder:           10,
		WeeklyOrder:           3,
		IntervalWidth:         0.80,
	}
}

// WithDefaults fills zero fields from DefaultOptions. NChangepoints is kept
// as given since zero is a valid setting that fits a single linear trend.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.ChangepointRange == 0 {
		o.ChangepointRange = d.ChangepointRange
	}
	if o.ChangepointPriorScale == 0 {
		o.ChangepointPriorScale = d.ChangepointPriorScale
	}
	if o.SeasonalityPriorScale == 0 {
		o.SeasonalityPriorScale = d.SeasonalityPriorScale
	}
	if o.YearlySeasonality == "" {
		o.YearlySeasonality = d.YearlySeasonality
	}
	if o.WeeklySeasonality == "" {
		o.WeeklySeasonality = d.WeeklySeasonality
	}
	if o.YearlyOrder == 0 {
		o.YearlyOrder = d.YearlyOrder
	}
	if o.WeeklyOrder == 0 {
		o.WeeklyOrder = d.WeeklyOrder
	}
	if o.IntervalWidth == 0 {
		o.IntervalWidth = d.IntervalWidth
	}
	return o
}

// Validate checks option ranges.
func (o Options) Validate() error {
	var errs []error
	if o.NChangepoints < 0 {
		errs = append(errs, errors.New("n_changepoints must not be negative"))
	}
	if o.ChangepointRange <= 0 || o.ChangepointRange > 1 {
		errs = append(errs, errors.New("changepoint_range must be in (0, 1]"))
	}
	if o.ChangepointPriorScale <= 0 || o.SeasonalityPriorScale <= 0 {
		errs = append(errs, errors.New("prior scales must be positive"))
	}
	if o.YearlyOrder < 1 || o.WeeklyOrder < 1 {
		errs = append(errs, errors.New("fourier orders must be at least 1"))
	}
	if o.IntervalWidth <= 0 || o.IntervalWidth >= 1 {
		errs = append(errs, errors.New("interval_width must be in (0, 1)"))
	}
	for _, m := range []SeasonalityMode{o.YearlySeasonality, o.WeeklySeasonality} {
		if _, err := ParseSeasonalityMode(string(m)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
