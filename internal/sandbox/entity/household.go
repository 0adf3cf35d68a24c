package entity

import (
	"strings"

	"github.com/samber/lo"
)

// MaxFamilySize is the largest household size with its own limit column.
// Bigger households get the limits of a household of this size.
const MaxFamilySize = 4

type Member struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Household struct {
	Code    string   `json:"code"`
	Area    string   `json:"area"`
	Members []Member `json:"members"`
}

// Member finds the member registered under contact, ignoring case.
func (h Household) Member(contact string) (Member, bool) {
	return lo.Find(h.Members, func(m Member) bool {
		return strings.EqualFold(m.Email, strings.TrimSpace(contact))
	})
}

// FamilySize is the member count capped at MaxFamilySize.
func (h Household) FamilySize() int {
	return min(len(h.Members), MaxFamilySize)
}

// Item is a ration item stocked in one area. Limits[n-1] is the allowance of
// a household of n members.
type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Area      string  `json:"area"`
	UnitPrice int64   `json:"unit_price"`
	Stock     int64   `json:"stock"`
	Limits    []int64 `json:"limits"`
}

func (i Item) LimitFor(familySize int) int64 {
	familySize = min(familySize, MaxFamilySize)
	if familySize <= 0 || familySize > len(i.Limits) {
		return 0
	}

	return i.Limits[familySize-1]
}

// Listed reports whether a household of familySize can order the item.
func (i Item) Listed(familySize int) bool {
	return i.Stock > 0 && i.LimitFor(familySize) > 0
}
