package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"farmhelp/entities"
)

// ErrInvalid wraps every rule failure reported by Observation.
var ErrInvalid = errors.New("validation failed")

// Validator wraps go-playground/validator with the price ordering rule
// registered on PriceObservation.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(priceOrdering, entities.PriceObservation{})
	return &Validator{validate: v}
}

// priceOrdering enforces min <= modal <= max for whichever bounds are present.
func priceOrdering(sl validator.StructLevel) {
	o := sl.Current().Interface().(entities.PriceObservation)
	if o.MinPrice != nil && o.MaxPrice != nil && *o.MinPrice > *o.MaxPrice {
		sl.ReportError(o.MaxPrice, "MaxPrice", "max_price", "gtefield_min", "")
	}
	if o.ModalPrice != nil && o.MinPrice != nil && *o.ModalPrice < *o.MinPrice {
		sl.ReportError(o.ModalPrice, "ModalPrice", "modal_price", "gtefield_min", "")
	}
	if o.ModalPrice != nil && o.MaxPrice != nil && *o.ModalPrice > *o.MaxPrice {
		sl.ReportError(o.ModalPrice, "ModalPrice", "modal_price", "ltefield_max", "")
	}
}

func (v *Validator) Observation(o *entities.PriceObservation) error {
	if err := v.validate.Struct(o); err != nil {
		return format(err)
	}
	return nil
}

func format(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Field(), e.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
