package schema_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/apierr"
	"github.com/lingoscene/lingoscene-api/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(values map[string]string) func(string) string {
	return func(name string) string { return values[name] }
}

func details(t *testing.T, err error) map[string]any {
	t.Helper()
	require.Error(t, err)
	e, ok := apierr.As(err)
	require.True(t, ok, "expected *goerrors.Error, got %T", err)
	assert.Equal(t, 400, apierr.StatusCode(e))
	assert.Equal(t, goerrors.CategoryValidation, e.Category)
	return apierr.Details(e)
}

func TestRuleSet_ReportsEveryViolation(t *testing.T) {
	rs := schema.RuleSet{Body: schema.NewUserCreate}

	_, err := rs.Validate(schema.Input{Body: []byte(`{"email":"not-an-email","name":"A","role":"root"}`)})
	got := details(t, err)

	assert.Equal(t, map[string]any{
		"email":    "Invalid email format",
		"password": "Password is required",
		"name":     "Name must be at least 2 characters",
		"role":     "Role must be one of: user, admin",
	}, got)
}

func TestRuleSet_PasswordRulesInOrder(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{password: "Ab1", want: "Password must be at least 8 characters"},
		{password: "password1", want: "Password must contain at least one uppercase letter"},
		{password: "PASSWORD1", want: "Password must contain at least one lowercase letter"},
		{password: "Password", want: "Password must contain at least one number"},
		{password: "Passw0rd", want: ""},
		{password: "Passw0rd" + strings.Repeat("x", 64), want: ""},
		{password: "Passw0rd" + strings.Repeat("x", 65), want: "Password must be at most 72 bytes"},
		{password: "Passw0rd" + strings.Repeat("é", 40), want: "Password must be at most 72 bytes"},
	}

	rs := schema.RuleSet{Body: schema.NewUserCreate}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.12s/%d", tt.password, len(tt.password)), func(t *testing.T) {
			body := []byte(`{"email":"a@b.com","password":"` + tt.password + `"}`)
			res, err := rs.Validate(schema.Input{Body: body})
			if tt.want == "" {
				require.NoError(t, err)
				user := res.Body.(*schema.User)
				assert.Equal(t, "a@b.com", *user.Email)
				return
			}
			assert.Equal(t, tt.want, details(t, err)["password"])
		})
	}
}

func TestRuleSet_NumericFieldsRejectStrings(t *testing.T) {
	rs := schema.RuleSet{Body: schema.NewThemeCreate}

	_, err := rs.Validate(schema.Input{Body: []byte(`{"name":"Kitchen","difficulty":"3","isLocked":"yes"}`)})
	got := details(t, err)

	assert.Equal(t, "must be an integer", got["difficulty"])
	assert.Equal(t, "must be a boolean", got["isLocked"])
	assert.NotContains(t, got, "name")
}

func TestRuleSet_ThemeDifficultyBounds(t *testing.T) {
	rs := schema.RuleSet{Body: schema.NewThemeCreate}

	for _, body := range []string{`{"name":"x"}`, `{"name":"x","difficulty":0}`, `{"name":"x","difficulty":6}`} {
		_, err := rs.Validate(schema.Input{Body: []byte(body)})
		assert.Equal(t, "Theme difficulty must be between 1 and 5", details(t, err)["difficulty"], body)
	}

	res, err := rs.Validate(schema.Input{Body: []byte(`{"name":"  Kitchen ","difficulty":5}`)})
	require.NoError(t, err)
	theme := res.Body.(*schema.Theme)
	assert.Equal(t, "Kitchen", *theme.Name)
	require.NotNil(t, theme.IsLocked)
	assert.False(t, *theme.IsLocked)
}

func TestRuleSet_PartialPayloads(t *testing.T) {
	t.Run("absent fields are allowed and get no defaults", func(t *testing.T) {
		res, err := schema.RuleSet{Body: schema.NewThemeUpdate}.Validate(schema.Input{Body: []byte(`{}`)})
		require.NoError(t, err)
		theme := res.Body.(*schema.Theme)
		assert.Nil(t, theme.IsLocked)
		assert.Nil(t, theme.Difficulty)
	})

	t.Run("present fields keep their rules", func(t *testing.T) {
		_, err := schema.RuleSet{Body: schema.NewThemeUpdate}.Validate(schema.Input{
			Body: []byte(`{"name":"","difficulty":9}`),
		})
		got := details(t, err)
		assert.Equal(t, "Theme name is required", got["name"])
		assert.Equal(t, "Theme difficulty must be between 1 and 5", got["difficulty"])
	})

	t.Run("user update drops role", func(t *testing.T) {
		res, err := schema.RuleSet{Body: schema.NewUserUpdate}.Validate(schema.Input{
			Body: []byte(`{"name":"Ana","role":"admin"}`),
		})
		require.NoError(t, err)
		user := res.Body.(*schema.User)
		assert.Nil(t, user.Role)
		assert.Equal(t, "Ana", *user.Name)
	})
}

func TestRuleSet_NestedVectors(t *testing.T) {
	rs := schema.RuleSet{Body: schema.NewObjectCreate}

	_, err := rs.Validate(schema.Input{Body: []byte(`{
		"name": "Cup",
		"objectIdentifier": "cup_01",
		"position": {"x": 1, "y": "up"},
		"highlightColor": "red",
		"themeId": 1
	}`)})
	got := details(t, err)

	assert.Equal(t, map[string]any{
		"y": "must be a number",
		"z": "z is required",
	}, got["position"])
	assert.Equal(t, "Highlight color must be a hex color like #RRGGBB", got["highlightColor"])
	assert.NotContains(t, got, "rotation")
}

func TestRuleSet_ObjectDefaults(t *testing.T) {
	res, err := schema.RuleSet{Body: schema.NewObjectCreate}.Validate(schema.Input{
		Body: []byte(`{"name":"Cup","objectIdentifier":"cup_01","themeId":2}`),
	})
	require.NoError(t, err)

	obj := res.Body.(*schema.Object)
	x, y, z := obj.Scale.Values()
	assert.Equal(t, []float64{1, 1, 1}, []float64{x, y, z})
	assert.True(t, *obj.Interactable)
	assert.Equal(t, schema.InteractionClick, *obj.InteractionType)
}

func TestRuleSet_ParamsAndQuery(t *testing.T) {
	rs := schema.RuleSet{
		Params: []schema.Param{{Name: "id", Kind: schema.PositiveInt}, {Name: "uuid", Kind: schema.UUID}},
		Query:  []schema.Param{{Name: "themeId", Kind: schema.PositiveInt, Optional: true}},
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := rs.Validate(schema.Input{
			Param: params(map[string]string{"id": "12abc", "uuid": "nope"}),
			Query: params(map[string]string{"themeId": "-1"}),
		})
		got := details(t, err)
		assert.Equal(t, map[string]any{
			"id":   "must be a positive integer",
			"uuid": "must be a valid UUID",
		}, got["params"])
		assert.Equal(t, map[string]any{"themeId": "must be a positive integer"}, got["query"])
	})

	t.Run("valid", func(t *testing.T) {
		id := uuid.New()
		res, err := rs.Validate(schema.Input{
			Param: params(map[string]string{"id": "42", "uuid": id.String()}),
			Query: params(nil),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), res.Params.Int("id"))
		assert.Equal(t, id, res.Params.UUID("uuid"))
		assert.Nil(t, res.Query.IntPtr("themeId"))
	})
}

func TestRuleSet_PathParamOverridesBody(t *testing.T) {
	rs := schema.RuleSet{
		Params: []schema.Param{{Name: "objectId", Kind: schema.PositiveInt}},
		Body:   schema.NewVocabularyCreate,
	}

	res, err := rs.Validate(schema.Input{
		Param: params(map[string]string{"objectId": "7"}),
		Body:  []byte(`{"englishWord":" cup ","vietnameseTranslation":"cái cốc","pronunciation":"/kʌp/","objectId":3}`),
	})
	require.NoError(t, err)

	v := res.Body.(*schema.Vocabulary)
	assert.Equal(t, int64(7), *v.ObjectID)
	assert.Equal(t, "cup", *v.EnglishWord)
	assert.Equal(t, []string{}, *v.Examples)
}

func TestRuleSet_VocabularyMessages(t *testing.T) {
	_, err := schema.RuleSet{Body: schema.NewVocabularyCreate}.Validate(schema.Input{
		Body: []byte(`{"englishWord":"   ","audioUrl":"not a url"}`),
	})
	got := details(t, err)

	assert.Equal(t, map[string]any{
		"englishWord":           "English word is required",
		"vietnameseTranslation": "Vietnamese translation is required",
		"pronunciation":         "Pronunciation is required",
		"audioUrl":              "Audio URL must be a valid URL",
		"objectId":              "Object ID is required",
	}, got)
}

func TestRuleSet_MalformedBody(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"text"`, `{"email":`, `null`} {
		_, err := schema.RuleSet{Body: schema.NewLogin}.Validate(schema.Input{Body: []byte(body)})
		require.Error(t, err, body)

		e, ok := apierr.As(err)
		require.True(t, ok)
		assert.Equal(t, 400, apierr.StatusCode(e))
		assert.Equal(t, goerrors.CategoryBadInput, e.Category)
		assert.Equal(t, "Malformed JSON body", e.Message)
		assert.Empty(t, e.ValidationErrors)
	}
}

func TestRuleSet_Progress(t *testing.T) {
	rs := schema.RuleSet{Body: schema.NewProgress}

	_, err := rs.Validate(schema.Input{Body: []byte(`{"proficiency":101,"lastReviewed":"yesterday"}`)})
	got := details(t, err)
	assert.Equal(t, "Proficiency must be between 0 and 100", got["proficiency"])
	assert.Equal(t, "must be an RFC3339 timestamp", got["lastReviewed"])

	res, err := rs.Validate(schema.Input{Body: []byte(`{"proficiency":0,"learned":true,"lastReviewed":"2026-01-02T03:04:05Z"}`)})
	require.NoError(t, err)
	p := res.Body.(*schema.Progress)
	assert.Equal(t, 0, *p.Proficiency)
	assert.Equal(t, 2026, p.LastReviewed.Year())
}

func TestValidateValue(t *testing.T) {
	err := schema.ValidateValue(&schema.Login{Email: " a@b.com "})
	got := details(t, err)
	assert.Equal(t, map[string]any{"password": "Password is required"}, got)
}

func TestFieldErrors(t *testing.T) {
	err := validation.Errors{
		"name":   errors.New("is required"),
		"params": validation.Errors{"id": errors.New("must be a positive integer")},
		"skip":   nil,
	}

	assert.Equal(t, []goerrors.FieldError{
		{Field: "name", Message: "is required"},
		{Field: "params.id", Message: "must be a positive integer"},
	}, schema.FieldErrors(err))

	assert.Equal(t, []goerrors.FieldError{{Field: "error", Message: "boom"}}, schema.FieldErrors(errors.New("boom")))
	assert.Nil(t, schema.FieldErrors(nil))
}
