package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Username             string `json:"username" validate:"required,min=3,max=64"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phone                string `json:"phone" validate:"required,digits=11"`
	Avatar               string `json:"avatar" validate:"nullable,url"`
}

func TestStructPassesValidInput(t *testing.T) {
	errs := Struct(&signupForm{
		Username:             "maryam",
		Password:             "password123",
		PasswordConfirmation: "password123",
		Phone:                "09121234567",
	})
	assert.False(t, HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredAndLengthRules(t *testing.T) {
	errs := Struct(&signupForm{
		Username:             "ab",
		Password:             "short",
		PasswordConfirmation: "short",
		Phone:                "0912123",
	})
	assert.Equal(t, "The username must be at least 3 characters.", errs["username"])
	assert.Equal(t, "The password must be at least 8 characters.", errs["password"])
	assert.Equal(t, "The phone must be 11 digits.", errs["phone"])
}

func TestConfirmedComparesSiblingField(t *testing.T) {
	errs := Struct(&signupForm{
		Username:             "maryam",
		Password:             "password123",
		PasswordConfirmation: "password124",
		Phone:                "09121234567",
	})
	assert.Equal(t, "The password confirmation does not match.", errs["password"])
}

func TestNullableSkipsRulesWhenEmptyOnly(t *testing.T) {
	valid := signupForm{
		Username:             "maryam",
		Password:             "password123",
		PasswordConfirmation: "password123",
		Phone:                "09121234567",
	}

	assert.Empty(t, Struct(&valid)["avatar"], "empty nullable field must pass")

	withBadURL := valid
	withBadURL.Avatar = "not-a-url"
	assert.Equal(t, "The avatar must be a valid URL.", Struct(&withBadURL)["avatar"])

	withGoodURL := valid
	withGoodURL.Avatar = "https://cdn.example.com/a.png"
	assert.Empty(t, Struct(&withGoodURL)["avatar"])
}

func TestNumericBounds(t *testing.T) {
	type priceForm struct {
		Price int64 `json:"price" validate:"required,gte=0,lte=1000000"`
		Off   int64 `json:"off" validate:"gte=0"`
	}

	assert.False(t, HasErrors(Struct(&priceForm{Price: 45000})))

	errs := Struct(&priceForm{Price: 2000000, Off: -5})
	assert.Equal(t, "The price must be less than or equal to 1000000.", errs["price"])
	assert.Equal(t, "The off must be greater than or equal to 0.", errs["off"])
}

func TestInRule(t *testing.T) {
	type statusForm struct {
		Status string `json:"status" validate:"required,in=pending,processing,delivered,canceled"`
	}

	for _, ok := range []string{"pending", "processing", "delivered", "canceled"} {
		assert.Empty(t, Struct(&statusForm{Status: ok})["status"], ok)
	}
	assert.Equal(t, "The selected status is invalid.", Struct(&statusForm{Status: "shipped"})["status"])
}

func TestSplitRulesKeepsInParamsTogether(t *testing.T) {
	rules := splitRules("required,in=a,b,c,max=3")
	assert.Equal(t, []string{"required", "in=a,b,c", "max=3"}, rules)
}

func TestFirstFailingRuleWinsPerField(t *testing.T) {
	errs := Struct(&signupForm{})
	assert.Equal(t, "The username field is required.", errs["username"])
	assert.Equal(t, "The password field is required.", errs["password"])
}
