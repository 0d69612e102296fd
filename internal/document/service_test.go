package document_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/totals"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultsFixture() document.Defaults {
	return document.Defaults{
		TemplateID: "modern",
		TaxRate:    dec("19"),
		Currency:   "€",
		Prefixes:   map[document.Kind]string{document.KindInvoice: "INV-"},
		Terms:      "Paiement à 30 jours",
		Issuer:     document.Party{Name: "ACME SRL"},
	}
}

func TestService_Create(t *testing.T) {
	type args struct {
		params document.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(repo *document.MockRepository, defaults *document.MockDefaultsProvider)
		check     func(t *testing.T, doc *document.Document)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "InvoiceWithDefaults",
			args: args{
				params: document.CreateParams{
					UserID: "u1",
					Kind:   document.KindInvoice,
					Items: []document.Item{
						{Description: "Audit", Quantity: dec("2"), UnitPrice: dec("100")},
						{Description: "Support", Quantity: dec("1"), UnitPrice: dec("50")},
					},
					GlobalDiscount: dec("10"),
				},
			},
			setupMock: func(repo *document.MockRepository, defaults *document.MockDefaultsProvider) {
				defaults.EXPECT().Resolve(gomock.Any(), "u1").Return(defaultsFixture(), nil)
				repo.EXPECT().
					CreateDocument(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, doc *document.Document) error {
						doc.ID = uuid.New()
						return nil
					})
			},
			check: func(t *testing.T, doc *document.Document) {
				assert.Regexp(t, regexp.MustCompile(`^INV-\d{6}$`), doc.Number)
				assert.Equal(t, "modern", doc.Template)
				assert.Equal(t, "ACME SRL", doc.Issuer.Name)
				assert.Equal(t, "Paiement à 30 jours", doc.Terms)
				assert.Equal(t, document.StatusDraft, doc.Status)
				assert.Equal(t, "250", doc.Subtotal.String())
				assert.Equal(t, "25", doc.GlobalDiscountAmount.String())
				assert.Equal(t, "42.75", doc.TaxAmount.String())
				assert.Equal(t, "267.75", doc.Total.String())

				for _, it := range doc.Items {
					assert.NotEmpty(t, it.ID)
				}
			},
		},
		{
			name: "ExplicitOverrides",
			args: args{
				params: document.CreateParams{
					UserID:   "u1",
					Kind:     document.KindPurchaseOrder,
					Number:   "PO-42",
					Template: "elegant",
					TaxRate:  ptr(dec("9")),
					Terms:    ptr(""),
				},
			},
			setupMock: func(repo *document.MockRepository, defaults *document.MockDefaultsProvider) {
				defaults.EXPECT().Resolve(gomock.Any(), "u1").Return(defaultsFixture(), nil)
				repo.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, doc *document.Document) {
				assert.Equal(t, "PO-42", doc.Number)
				assert.Equal(t, "elegant", doc.Template)
				assert.Equal(t, "9", doc.TaxRate.String())
				assert.Empty(t, doc.Terms)
			},
		},
		{
			name: "DeliveryNoteHasNoFinancials",
			args: args{
				params: document.CreateParams{
					UserID: "u1",
					Kind:   document.KindDeliveryNote,
					DeliveryItems: []document.DeliveryItem{
						{Reference: "R1", Description: "Palette", Quantity: dec("3"), Unit: "pcs"},
					},
				},
			},
			setupMock: func(repo *document.MockRepository, defaults *document.MockDefaultsProvider) {
				defaults.EXPECT().Resolve(gomock.Any(), "u1").Return(defaultsFixture(), nil)
				repo.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, doc *document.Document) {
				assert.Regexp(t, regexp.MustCompile(`^BL-\d{6}$`), doc.Number)
				assert.True(t, doc.Total.IsZero())
				assert.True(t, doc.TaxRate.IsZero())
			},
		},
		{
			name: "UnknownKind",
			args: args{
				params: document.CreateParams{UserID: "u1", Kind: "receipt"},
			},
			wantErr: document.ErrUnknownKind,
		},
		{
			name: "RateNotAllowed",
			args: args{
				params: document.CreateParams{UserID: "u1", Kind: document.KindInvoice, TaxRate: ptr(dec("20"))},
			},
			setupMock: func(_ *document.MockRepository, defaults *document.MockDefaultsProvider) {
				defaults.EXPECT().Resolve(gomock.Any(), "u1").Return(defaultsFixture(), nil)
			},
			wantErr: totals.ErrRateNotAllowed,
		},
		{
			name: "DuplicateNumber",
			args: args{
				params: document.CreateParams{UserID: "u1", Kind: document.KindInvoice, Number: "INV-1"},
			},
			setupMock: func(repo *document.MockRepository, defaults *document.MockDefaultsProvider) {
				defaults.EXPECT().Resolve(gomock.Any(), "u1").Return(defaultsFixture(), nil)
				repo.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).Return(document.ErrDuplicateNumber)
			},
			wantErr: document.ErrDuplicateNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := document.NewMockRepository(ctrl)
			defaults := document.NewMockDefaultsProvider(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, defaults)
			}

			svc := document.NewService(repo, defaults, totals.DefaultRates)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}

func TestService_Update_RecalculatesStaleTotals(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := document.NewMockRepository(ctrl)
	svc := document.NewService(repo, nil, totals.DefaultRates)

	doc := &document.Document{
		ID:   uuid.New(),
		Kind: document.KindInvoice,
		Items: []document.Item{
			{ID: "a", Quantity: dec("3"), UnitPrice: dec("10"), Total: dec("999")},
		},
		Financials: document.Financials{TaxRate: dec("0"), Total: dec("1")},
	}

	repo.EXPECT().
		UpdateDocument(gomock.Any(), doc).
		DoAndReturn(func(_ context.Context, d *document.Document) error {
			assert.Equal(t, "30", d.Items[0].Total.String())
			assert.Equal(t, "30", d.Total.String())
			return nil
		})

	require.NoError(t, svc.Update(context.Background(), doc))
}

func TestService_MarkPaid(t *testing.T) {
	type testCase struct {
		name      string
		paidDate  string
		setupMock func(m *document.MockRepository, id uuid.UUID)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			paidDate: "2024-03-01",
			setupMock: func(m *document.MockRepository, id uuid.UUID) {
				m.EXPECT().GetDocument(gomock.Any(), "u1", id).Return(&document.Document{ID: id, Kind: document.KindInvoice}, nil)
				m.EXPECT().UpdateDocument(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "NotFound",
			setupMock: func(m *document.MockRepository, id uuid.UUID) {
				m.EXPECT().GetDocument(gomock.Any(), "u1", id).Return(nil, document.ErrNotFound)
			},
			wantErr: document.ErrNotFound,
		},
		{
			name: "DeliveryNoteRejected",
			setupMock: func(m *document.MockRepository, id uuid.UUID) {
				m.EXPECT().GetDocument(gomock.Any(), "u1", id).Return(&document.Document{ID: id, Kind: document.KindDeliveryNote}, nil)
			},
			wantErr: document.ErrNotInvoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			repo := document.NewMockRepository(ctrl)
			tt.setupMock(repo, id)

			svc := document.NewService(repo, nil, nil)
			got, err := svc.MarkPaid(context.Background(), "u1", id, tt.paidDate)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.True(t, got.IsPaid)
			assert.Equal(t, document.StatusPaid, got.Status)
			assert.Equal(t, tt.paidDate, got.PaidDate)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	type args struct {
		status document.Status
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *document.MockRepository, id uuid.UUID)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{status: document.StatusSent},
			setupMock: func(m *document.MockRepository, id uuid.UUID) {
				m.EXPECT().GetDocument(gomock.Any(), "u1", id).Return(&document.Document{ID: id, Kind: document.KindInvoice}, nil)
				m.EXPECT().UpdateStatus(gomock.Any(), "u1", id, document.StatusSent).Return(nil)
			},
		},
		{
			name:      "UnknownStatus",
			args:      args{status: "banana"},
			setupMock: func(*document.MockRepository, uuid.UUID) {},
			wantErr:   document.ErrUnknownStatus,
		},
		{
			name: "PurchaseOrderRejected",
			args: args{status: document.StatusSent},
			setupMock: func(m *document.MockRepository, id uuid.UUID) {
				m.EXPECT().GetDocument(gomock.Any(), "u1", id).Return(&document.Document{ID: id, Kind: document.KindPurchaseOrder}, nil)
			},
			wantErr: document.ErrNotInvoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			repo := document.NewMockRepository(ctrl)
			tt.setupMock(repo, id)

			svc := document.NewService(repo, nil, nil)
			err := svc.UpdateStatus(context.Background(), "u1", id, tt.args.status)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_UpdateNormalizesLifecycle(t *testing.T) {
	type testCase struct {
		name       string
		doc        *document.Document
		wantStatus document.Status
		wantErr    error
	}

	tests := []testCase{
		{
			name:       "DeliveryNoteLosesPayment",
			doc:        &document.Document{Kind: document.KindDeliveryNote, Status: document.StatusPaid, IsPaid: true, PaidDate: "2024-01-02"},
			wantStatus: "",
		},
		{
			name:       "InvoiceDefaultsToDraft",
			doc:        &document.Document{Kind: document.KindInvoice},
			wantStatus: document.StatusDraft,
		},
		{
			name:    "InvoiceWithUnknownStatus",
			doc:     &document.Document{Kind: document.KindInvoice, Status: "banana"},
			wantErr: document.ErrUnknownStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := document.NewMockRepository(ctrl)
			if tt.wantErr == nil {
				repo.EXPECT().UpdateDocument(gomock.Any(), gomock.Any()).Return(nil)
			}

			svc := document.NewService(repo, nil, nil)
			err := svc.Update(context.Background(), tt.doc)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tt.doc.Status)

			if !tt.doc.Kind.Payable() {
				assert.False(t, tt.doc.IsPaid)
				assert.Empty(t, tt.doc.PaidDate)
			}
		})
	}
}

func TestService_AppendItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := document.NewMockRepository(ctrl)
	svc := document.NewService(repo, nil, nil)

	existing := &document.Document{
		ID:    id,
		Kind:  document.KindInvoice,
		Items: []document.Item{document.NewItem("A", dec("1"), dec("10"))},
	}

	repo.EXPECT().GetDocument(gomock.Any(), "u1", id).Return(existing, nil)
	repo.EXPECT().UpdateDocument(gomock.Any(), existing).Return(nil)

	got, err := svc.AppendItems(context.Background(), "u1", id, []document.Item{
		{Description: "B", Quantity: dec("2"), UnitPrice: dec("5")},
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "10", got.Items[1].Total.String())
	assert.Equal(t, "20", got.Subtotal.String())
}

func TestService_AppendItems_DeliveryNoteRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := document.NewMockRepository(ctrl)
	repo.EXPECT().GetDocument(gomock.Any(), "u1", id).Return(&document.Document{ID: id, Kind: document.KindDeliveryNote}, nil)

	svc := document.NewService(repo, nil, nil)
	_, err := svc.AppendItems(context.Background(), "u1", id, []document.Item{{Description: "x"}})
	assert.ErrorIs(t, err, document.ErrUnpriced)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kind := document.KindInvoice
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := document.ListFilter{UserID: "u1", Kind: &kind, StartDate: &start}

	repo := document.NewMockRepository(ctrl)
	repo.EXPECT().ListDocuments(gomock.Any(), filter).Return([]*document.Document{{ID: uuid.New()}}, nil)

	svc := document.NewService(repo, nil, nil)
	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := document.NewMockRepository(ctrl)
	repo.EXPECT().DeleteDocument(gomock.Any(), "u1", id).Return(errors.New("db error"))

	svc := document.NewService(repo, nil, nil)
	assert.Error(t, svc.Delete(context.Background(), "u1", id))
}

func TestNextNumber(t *testing.T) {
	now := time.UnixMilli(1_700_000_123_456)
	assert.Equal(t, "FAC-123456", document.NextNumber("FAC-", now))

	now = time.UnixMilli(1_700_000_000_042)
	assert.Equal(t, "BL-000042", document.NextNumber("BL-", now))
}

func ptr[T any](v T) *T {
	return &v
}
