package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/gobarajas/outreach-cli/internal/model"
	"github.com/gobarajas/outreach-cli/internal/phone"
)

// Builder turns recovered field sets into validated contacts, applying the
// phone policy and the lot-type business filter.
type Builder struct {
	allowForeign bool
	excluded     map[string]struct{}
}

// NewBuilder creates a Builder. excludedLotTypes holds the lot categories
// that are never messaged; matching is case-insensitive.
func NewBuilder(allowForeign bool, excludedLotTypes []string) *Builder {
	excluded := make(map[string]struct{}, len(excludedLotTypes))
	for _, lt := range excludedLotTypes {
		excluded[strings.ToUpper(strings.TrimSpace(lt))] = struct{}{}
	}
	return &Builder{allowForeign: allowForeign, excluded: excluded}
}

// Build validates fields into a Contact. Returns (nil, false) when the
// phone candidate is not a valid number or the lot type is excluded. The
// phone is stored in its captured form; wire formatting happens at send
// time. One diagnostic line is logged per decision.
func (b *Builder) Build(f *Fields) (*model.Contact, bool) {
	log := zap.L().With(zap.String("name", f.Name))

	if !phone.IsValid(f.PhoneCandidate, b.allowForeign) {
		log.Debug("extract: skipping row, no valid phone",
			zap.String("candidate", f.PhoneCandidate))
		return nil, false
	}

	if _, banned := b.excluded[strings.ToUpper(f.LotType)]; banned {
		log.Info("extract: skipping row, excluded lot type",
			zap.String("lot_type", f.LotType))
		return nil, false
	}

	log.Info("extract: contact accepted",
		zap.String("phone", f.PhoneCandidate),
		zap.String("category", phone.Classify(f.PhoneCandidate).String()))

	return &model.Contact{
		Name:      f.Name,
		Phone:     f.PhoneCandidate,
		Plate:     f.Plate,
		EntryTime: f.EntryTime,
		EntryDate: f.EntryDate,
		LotType:   f.LotType,
		Occupants: f.Occupants,
	}, true
}
