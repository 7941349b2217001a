package service

import (
	"time"

	"github.com/mmynk/splitzytip/internal/calculator"
	"github.com/mmynk/splitzytip/internal/models"
	"github.com/mmynk/splitzytip/pkg/api"
)

func profileToAPI(u *models.User) api.Profile {
	initials := models.Initials(u.Name)
	if initials == "" {
		initials = models.Initials(u.Email)
	}
	return api.Profile{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PhotoURL:      u.PhotoURL,
		Initials:      initials,
		EmailVerified: u.EmailVerified,
		GoogleLinked:  u.GoogleSubject != "",
		CreatedAt:     time.Unix(u.CreatedAt, 0).UTC(),
	}
}

func tipInputToAPI(in calculator.TipInput) api.TipInput {
	return api.TipInput{
		BillAmount:   in.BillAmount,
		PeopleCount:  in.PeopleCount,
		TipSelection: in.Tip.String(),
		CustomTip:    in.CustomTip,
	}
}

// tipResultToAPI converts a computation for the wire. JSON has no NaN, so
// non-finite amounts become 0 and Complete reports that they were.
func tipResultToAPI(r calculator.TipResult) api.TipResult {
	display := r.Display()
	out := api.TipResult{
		Valid:          r.Valid,
		Complete:       r.Valid && display.Complete,
		TipAmount:      calculator.Finite(r.TipAmount),
		TotalAmount:    calculator.Finite(r.TotalAmount),
		TipPerPerson:   calculator.Finite(r.TipPerPerson),
		TotalPerPerson: calculator.Finite(r.TotalPerPerson),
		Formatted: api.FormattedAmounts{
			TipAmount:      display.TipAmount,
			TotalAmount:    display.TotalAmount,
			TipPerPerson:   display.TipPerPerson,
			TotalPerPerson: display.TotalPerPerson,
		},
	}
	if pct := calculator.Finite(r.TipPercent); pct == r.TipPercent {
		out.TipPercent = &pct
	}
	return out
}
