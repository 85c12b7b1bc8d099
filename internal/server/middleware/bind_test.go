package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindHeader(t *testing.T) {
	type args struct {
		header map[string]string
		out    interface{}
	}

	type normalCase struct {
		App     string `header:"app"`
		Trigger string `header:"x-triggered-by"`

		Non   string `header:"-"`
		Empty bool
	}

	type complexCase struct {
		Nine              int64   `header:"nine"`
		ThousandAndSeven  uint64  `header:"thousand-and-seven"`
		NegativeThirtyTwo int64   `header:"negative-thirty-two"`
		HundredPointSix   float32 `header:"hundred-point-six"`
		Rose              string  `header:"rose"`
		Missing           int     `header:"missing"`
	}

	type invalidCase struct {
		Flag bool `header:"flag"`
	}

	tests := []struct {
		name    string
		args    args
		want    interface{}
		wantErr bool
	}{
		{
			name: "normal bind header",
			args: args{
				header: map[string]string{
					"app":            "price-tracker",
					"x-triggered-by": "ops",
					"non":            "non",
					"empty":          "empty",
				},
				out: new(normalCase),
			},
			want: &normalCase{
				App:     "price-tracker",
				Trigger: "ops",
			},
		},
		{
			name: "complex bind header",
			args: args{
				header: map[string]string{
					"nine":                "9",
					"thousand-and-seven":  "1007",
					"negative-thirty-two": "-32",
					"hundred-point-six":   "100.6",
					"rose":                "rose",
				},
				out: new(complexCase),
			},
			want: &complexCase{
				Nine:              9,
				ThousandAndSeven:  1007,
				NegativeThirtyTwo: -32,
				HundredPointSix:   100.6,
				Rose:              "rose",
			},
		},
		{
			name: "binding with wrong type",
			args: args{
				header: map[string]string{"flag": "not boolean"},
				out:    new(invalidCase),
			},
			want:    &invalidCase{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tt.args.header {
				header.Set(k, v)
			}
			err := bindHeader(header, tt.args.out)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.EqualValues(t, tt.want, tt.args.out)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	type request struct {
		Page  int    `query:"page" validate:"gte=0"`
		Limit int    `query:"limit" validate:"gte=0,lte=500"`
		By    string `header:"x-triggered-by"`
	}

	e := echo.New()
	e.Validator = NewValidator()

	t.Run("query and header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products?page=2&limit=50", nil)
		req.Header.Set(XTriggeredBy, "ops")
		c := e.NewContext(req, httptest.NewRecorder())

		var r request
		require.NoError(t, BindAndValidate(c, &r))
		assert.Equal(t, request{Page: 2, Limit: 50, By: "ops"}, r)
	})

	t.Run("validation failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products?limit=501", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		var r request
		err := BindAndValidate(c, &r)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("malformed query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products?page=abc", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		var r request
		err := BindAndValidate(c, &r)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}
