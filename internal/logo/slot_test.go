package logo_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/factura/internal/logo"
)

func assetFixture(size int) *logo.Asset {
	return &logo.Asset{
		ImageData: "data:image/jpeg;base64," + strings.Repeat("A", size),
		Info:      logo.Info{Name: "logo.jpg", CompressedSize: size},
	}
}

func TestSlot_Replace(t *testing.T) {
	type testCase struct {
		name      string
		ceiling   int
		asset     *logo.Asset
		setupMock func(m *logo.MockStore)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "SingleFullWrite",
			asset: assetFixture(100),
			setupMock: func(m *logo.MockStore) {
				m.EXPECT().
					Set(gomock.Any(), "logo:u1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value []byte) error {
						var got logo.Asset
						require.NoError(t, json.Unmarshal(value, &got))
						assert.Equal(t, "logo.jpg", got.Info.Name)
						return nil
					}).
					Times(1)
			},
		},
		{
			name:    "CeilingCheckedBeforeWrite",
			ceiling: 50,
			asset:   assetFixture(100),
			wantErr: logo.ErrStorageQuotaExceeded,
		},
		{
			name:  "StoreReportsQuota",
			asset: assetFixture(100),
			setupMock: func(m *logo.MockStore) {
				m.EXPECT().Set(gomock.Any(), "logo:u1", gomock.Any()).Return(logo.ErrStorageQuotaExceeded)
			},
			wantErr: logo.ErrStorageQuotaExceeded,
		},
		{
			name:  "StoreFailure",
			asset: assetFixture(100),
			setupMock: func(m *logo.MockStore) {
				m.EXPECT().Set(gomock.Any(), "logo:u1", gomock.Any()).Return(errors.New("connection reset"))
			},
			wantErr: errors.New("storing logo: connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := logo.NewMockStore(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(store)
			}

			err := logo.NewSlot(store, "u1", tt.ceiling).Replace(context.Background(), tt.asset)

			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, logo.ErrStorageQuotaExceeded):
				assert.ErrorIs(t, err, logo.ErrStorageQuotaExceeded)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
		})
	}
}

func TestSlot_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := logo.NewMockStore(ctrl)
	slot := logo.NewSlot(store, "u1", 0)

	store.EXPECT().Get(gomock.Any(), "logo:u1").Return(nil, logo.ErrNoLogo)
	_, err := slot.Load(context.Background())
	assert.ErrorIs(t, err, logo.ErrNoLogo)

	store.EXPECT().Get(gomock.Any(), "logo:u1").Return([]byte("{not json"), nil)
	_, err = slot.Load(context.Background())
	assert.Error(t, err)

	value, _ := json.Marshal(assetFixture(10))
	store.EXPECT().Get(gomock.Any(), "logo:u1").Return(value, nil)
	got, err := slot.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, got.Info.CompressedSize)
}
