package shipping

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
)

// Destination is the address slice zone matching looks at.
type Destination struct {
	Country string
	State   string
	Zip     string
}

// Option is one priced shipping choice offered for a destination.
type Option struct {
	MethodID uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

// QuoteResult is the full answer for a destination: whether a zone matched
// and the priced options it offers. No match means the caller falls back to
// free shipping, not an error.
type QuoteResult struct {
	ZoneMatched bool     `json:"zone_matched"`
	ZoneName    string   `json:"zone_name,omitempty"`
	Options     []Option `json:"options"`
}

// Service resolves destinations to zones and prices their methods.
type Service interface {
	Quote(ctx context.Context, dest Destination, subtotal decimal.Decimal, itemCount int) (*QuoteResult, error)
	// QuoteMethod re-prices a single method by id, used to confirm a
	// client-chosen option at commit time.
	QuoteMethod(ctx context.Context, methodID uuid.UUID, dest Destination, subtotal decimal.Decimal, itemCount int) (*Option, error)
}

type service struct {
	repo Repository
}

// NewService wires a shipping service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Quote(ctx context.Context, dest Destination, subtotal decimal.Decimal, itemCount int) (*QuoteResult, error) {
	zones, err := s.repo.ListActiveZones(ctx)
	if err != nil {
		return nil, err
	}

	zone := ResolveZone(zones, dest)
	if zone == nil {
		return &QuoteResult{}, nil
	}

	result := &QuoteResult{ZoneMatched: true, ZoneName: zone.Name}
	for _, method := range zone.Methods {
		result.Options = append(result.Options, Option{
			MethodID: method.ID,
			Name:     method.Name,
			Amount:   QuoteMethod(method, subtotal, itemCount),
		})
	}
	return result, nil
}

func (s *service) QuoteMethod(ctx context.Context, methodID uuid.UUID, dest Destination, subtotal decimal.Decimal, itemCount int) (*Option, error) {
	zones, err := s.repo.ListActiveZones(ctx)
	if err != nil {
		return nil, err
	}

	zone := ResolveZone(zones, dest)
	if zone == nil {
		return nil, nil
	}
	for _, method := range zone.Methods {
		if method.ID == methodID {
			return &Option{
				MethodID: method.ID,
				Name:     method.Name,
				Amount:   QuoteMethod(method, subtotal, itemCount),
			}, nil
		}
	}
	return nil, nil
}

// ResolveZone walks zones in the order given (ascending sort_order) and
// returns the first whose filters all match the destination. Filters narrow:
// an empty country list (or "*") matches every country, and a declared state
// or zip-prefix list must be satisfied or the zone is skipped.
func ResolveZone(zones []models.ShippingZone, dest Destination) *models.ShippingZone {
	country := strings.ToUpper(strings.TrimSpace(dest.Country))
	state := strings.ToUpper(strings.TrimSpace(dest.State))
	zip := strings.TrimSpace(dest.Zip)

	for i := range zones {
		zone := &zones[i]
		if !countryMatches(zone.CountryCodes, country) {
			continue
		}
		if len(zone.StateCodes) > 0 && !containsFold(zone.StateCodes, state) {
			continue
		}
		if len(zone.ZipPrefixes) > 0 && !zipMatches(zone.ZipPrefixes, zip) {
			continue
		}
		return zone
	}
	return nil
}

func countryMatches(codes []string, country string) bool {
	if len(codes) == 0 {
		return true
	}
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "*" || strings.EqualFold(code, country) {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

// zipMatches is a plain string-prefix check, so alphanumeric postcodes work.
func zipMatches(prefixes []string, zip string) bool {
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" && strings.HasPrefix(zip, prefix) {
			return true
		}
	}
	return false
}

// QuoteMethod prices one method. A met free-shipping threshold always wins;
// otherwise per_item scales with itemCount while flat and per_order charge
// the rate verbatim.
func QuoteMethod(method models.ShippingMethod, subtotal decimal.Decimal, itemCount int) decimal.Decimal {
	if method.MinOrderForFree.IsPositive() && subtotal.GreaterThanOrEqual(method.MinOrderForFree) {
		return decimal.Zero
	}

	switch method.RateType {
	case enums.RateTypePerItem:
		return method.RateValue.Mul(decimal.NewFromInt(int64(itemCount))).Round(2)
	case enums.RateTypeFlat, enums.RateTypePerOrder:
		return method.RateValue
	default:
		return decimal.Zero
	}
}
