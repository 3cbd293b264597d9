package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func (s *ValidatorTestSuite) TestIsValidID() {
	tests := []struct {
		desc       string
		id         string
		expIsValid bool
	}{
		{
			desc:       "empty",
			id:         "",
			expIsValid: false,
		},
		{
			desc:       "not an uuid",
			id:         "object-1",
			expIsValid: false,
		},
		{
			desc:       "valid uuid",
			id:         "7f1d5f3e-8a53-4e0c-9c1b-3a55b1f0c0de",
			expIsValid: true,
		},
		{
			desc:       "upper case is not canonical",
			id:         "7F1D5F3E-8A53-4E0C-9C1B-3A55B1F0C0DE",
			expIsValid: false,
		},
	}
	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidID(t.id), t.desc)
	}
}

func (s *ValidatorTestSuite) TestDecimalTags() {
	type req struct {
		ObjectID string           `validate:"id"`
		Amount   decimal.Decimal  `validate:"gt=0"`
		Reserve  *decimal.Decimal `validate:"omitempty,gte=0"`
	}
	v := NewCustomValidator(New())

	s.NoError(v.Validate(&req{ObjectID: "7f1d5f3e-8a53-4e0c-9c1b-3a55b1f0c0de", Amount: decimal.NewFromInt(110)}))
	s.Error(v.Validate(&req{ObjectID: "7f1d5f3e-8a53-4e0c-9c1b-3a55b1f0c0de", Amount: decimal.Zero}))
	s.Error(v.Validate(&req{ObjectID: "nope", Amount: decimal.NewFromInt(1)}))

	negative := decimal.NewFromInt(-1)
	s.Error(v.Validate(&req{ObjectID: "7f1d5f3e-8a53-4e0c-9c1b-3a55b1f0c0de", Amount: decimal.NewFromInt(1), Reserve: &negative}))
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
