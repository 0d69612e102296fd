package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/settings"
	"github.com/MrJamesThe3rd/factura/internal/totals"
)

var fallback = settings.Fallback{
	TemplateID: "classic",
	TaxRate:    decimal.NewFromInt(19),
	Currency:   "€",
}

func TestService_Resolve(t *testing.T) {
	nine := decimal.NewFromInt(9)

	type testCase struct {
		name      string
		setupMock func(m *settings.MockRepository)
		want      func(t *testing.T, d document.Defaults)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "NothingSaved",
			setupMock: func(m *settings.MockRepository) {
				m.EXPECT().GetSettings(gomock.Any(), "u1").Return(nil, nil)
			},
			want: func(t *testing.T, d document.Defaults) {
				assert.Equal(t, "classic", d.TemplateID)
				assert.Equal(t, "19", d.TaxRate.String())
				assert.Equal(t, "€", d.Currency)
				assert.Equal(t, "FAC-", d.Prefix(document.KindInvoice))
				assert.Equal(t, "BL-", d.Prefix(document.KindDeliveryNote))
			},
		},
		{
			name: "UserOverrides",
			setupMock: func(m *settings.MockRepository) {
				m.EXPECT().GetSettings(gomock.Any(), "u1").Return(&settings.Settings{
					TemplateID: "corporate",
					TaxRate:    &nine,
					Prefixes:   map[document.Kind]string{document.KindInvoice: "F2024-"},
					Terms:      "Net 15",
					Company:    document.Party{Name: "Dupont SARL"},
				}, nil)
			},
			want: func(t *testing.T, d document.Defaults) {
				assert.Equal(t, "corporate", d.TemplateID)
				assert.Equal(t, "9", d.TaxRate.String())
				assert.Equal(t, "F2024-", d.Prefix(document.KindInvoice))
				assert.Equal(t, "BC-", d.Prefix(document.KindPurchaseOrder))
				assert.Equal(t, "Net 15", d.Terms)
				assert.Equal(t, "Dupont SARL", d.Issuer.Name)
			},
		},
		{
			name: "RepoError",
			setupMock: func(m *settings.MockRepository) {
				m.EXPECT().GetSettings(gomock.Any(), "u1").Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := settings.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := settings.NewService(repo, fallback, totals.DefaultRates)
			got, err := svc.Resolve(context.Background(), "u1")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.want(t, got)
		})
	}
}

func TestService_Resolve_DoesNotLeakPrefixes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := settings.NewMockRepository(ctrl)
	repo.EXPECT().GetSettings(gomock.Any(), gomock.Any()).Return(&settings.Settings{
		Prefixes: map[document.Kind]string{document.KindInvoice: "X-"},
	}, nil)

	svc := settings.NewService(repo, fallback, nil)
	_, err := svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "FAC-", document.DefaultPrefixes[document.KindInvoice])
}

func TestService_Save(t *testing.T) {
	twenty := decimal.NewFromInt(20)

	type testCase struct {
		name      string
		input     *settings.Settings
		setupMock func(m *settings.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "Success",
			input: &settings.Settings{TemplateID: "minimal"},
			setupMock: func(m *settings.MockRepository) {
				m.EXPECT().SaveSettings(gomock.Any(), "u1", gomock.Any()).Return(nil)
			},
		},
		{
			name:    "UnknownTemplate",
			input:   &settings.Settings{TemplateID: "nope"},
			wantErr: settings.ErrUnknownTemplate,
		},
		{
			name:    "RateNotAllowed",
			input:   &settings.Settings{TaxRate: &twenty},
			wantErr: totals.ErrRateNotAllowed,
		},
		{
			name:    "UnknownPrefixKind",
			input:   &settings.Settings{Prefixes: map[document.Kind]string{"receipt": "R-"}},
			wantErr: document.ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := settings.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := settings.NewService(repo, fallback, totals.DefaultRates)
			err := svc.Save(context.Background(), "u1", tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
