package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/mock"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/models"
)

var savedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(config.Session{Dir: t.TempDir(), MinSize: 100}, utils.NewManualClock(savedAt), logger.Nop())
}

func sampleState() models.StorageState {
	return models.StorageState{
		Cookies: []models.Cookie{
			{Name: "sid", Value: "00D5g000004abcd!AQ4AQ", Domain: ".my.salesforce.com", Path: "/", Expires: 1767225600, HTTPOnly: true, Secure: true, SameSite: "None"},
			{Name: "BrowserId", Value: "x1", Domain: ".salesforce.com", Path: "/", Expires: -1},
		},
		Origins: []models.OriginStorage{{
			Origin:       "https://acme.lightning.force.com",
			LocalStorage: []models.StorageEntry{{Name: "LSKey[c]recent", Value: "{}"}},
		}},
	}
}

func TestNormalizeProfile(t *testing.T) {
	assert.Equal(t, "casemanager", NormalizeProfile("Case Manager"))
	assert.Equal(t, "systemadmin", NormalizeProfile(" System\tAdmin "))
	assert.Equal(t, "", NormalizeProfile("  "))
}

func TestStore_Path(t *testing.T) {
	s := NewStore(config.Session{Dir: ".auth"}, utils.NewRealClock(), logger.Nop())
	assert.Equal(t, filepath.Join(".auth", "casemanager-worker2.json"), s.Path("Case Manager", 2))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	s := newTestStore(t)

	state := sampleState()
	driver.EXPECT().StorageState(gomock.Any()).Return(state, nil)

	require.NoError(t, s.Save(context.Background(), driver, "Case Manager", 1, "cm.user@example.com"))
	assert.True(t, s.Exists("case manager", 1))

	record, err := s.Load("Case Manager", 1)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, state, record.StorageState)
	assert.Equal(t, &models.SessionMetadata{
		ProfileName: "Case Manager",
		Username:    "cm.user@example.com",
		SavedAt:     savedAt,
		WorkerIndex: 1,
	}, record.Metadata)

	info, err := os.Stat(s.Path("Case Manager", 1))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_SaveOverwrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	s := newTestStore(t)

	first := sampleState()
	second := models.StorageState{Cookies: []models.Cookie{{Name: "sid", Value: "new", Domain: "d", Path: "/", Expires: -1}}}
	gomock.InOrder(
		driver.EXPECT().StorageState(gomock.Any()).Return(first, nil),
		driver.EXPECT().StorageState(gomock.Any()).Return(second, nil),
	)

	require.NoError(t, s.Save(context.Background(), driver, "p", 0, "a"))
	require.NoError(t, s.Save(context.Background(), driver, "p", 0, "b"))

	record, err := s.Load("p", 0)
	require.NoError(t, err)
	assert.Equal(t, "new", record.Cookies[0].Value)
	assert.Empty(t, record.Origins)
	assert.Equal(t, "b", record.Metadata.Username)
}

func TestStore_SaveSnapshotFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	s := newTestStore(t)
	boom := errors.New("target closed")
	driver.EXPECT().StorageState(gomock.Any()).Return(models.StorageState{}, boom)

	err := s.Save(context.Background(), driver, "p", 0, "u")
	require.ErrorIs(t, err, boom)
	assert.False(t, s.Exists("p", 0))
}

func TestStore_Exists(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.Exists("p", 0), "missing file")

	require.NoError(t, os.WriteFile(s.Path("p", 0), []byte(`{"cookies":[]}`), 0o600))
	assert.False(t, s.Exists("p", 0), "file below the size threshold")

	require.NoError(t, os.WriteFile(s.Path("p", 0), []byte(strings.Repeat(" ", 101)), 0o600))
	assert.True(t, s.Exists("p", 0))

	require.NoError(t, os.Mkdir(s.Path("q", 0), 0o700))
	assert.False(t, s.Exists("q", 0), "directories are not sessions")
}

func TestStore_LoadMissingOrCorrupt(t *testing.T) {
	s := newTestStore(t)

	record, err := s.Load("p", 0)
	require.NoError(t, err)
	assert.Nil(t, record)

	require.NoError(t, os.WriteFile(s.Path("p", 0), []byte("{not json"), 0o600))
	record, err = s.Load("p", 0)
	assert.ErrorIs(t, err, ErrCorruptSession)
	assert.Nil(t, record)

	require.NoError(t, os.Mkdir(s.Path("q", 0), 0o700))
	record, err = s.Load("q", 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorruptSession)
	assert.Nil(t, record)
}

func TestStore_ApplyCorruptFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.Path("p", 0), []byte("{not json"), 0o600))

	assert.False(t, s.Apply(context.Background(), driver, "p", 0))
	assert.FileExists(t, s.Path("p", 0))
}

// saveSample stores sampleState for (profile, worker) with regular metadata.
func saveSample(t *testing.T, s *Store, profile string, worker int) {
	t.Helper()
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	driver.EXPECT().StorageState(gomock.Any()).Return(sampleState(), nil)
	require.NoError(t, s.Save(context.Background(), driver, profile, worker, "u"))
}

// replaceMetadata rewrites the metadata block of a saved session.
func replaceMetadata(t *testing.T, s *Store, profile string, worker int, meta *models.SessionMetadata) {
	t.Helper()
	record, err := s.Load(profile, worker)
	require.NoError(t, err)
	require.NotNil(t, record)
	record.Metadata = meta
	raw, err := jsonIndent(record)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(profile, worker), raw, 0o600))
}

func TestStore_Apply(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	s := newTestStore(t)
	saveSample(t, s, "Case Manager", 0)

	state := sampleState()
	gomock.InOrder(
		driver.EXPECT().AddCookies(gomock.Any(), state.Cookies).Return(nil),
		driver.EXPECT().SetOriginStorage(gomock.Any(), state.Origins[0]).Return(nil),
	)

	assert.True(t, s.Apply(context.Background(), driver, "casemanager", 0))
}

func TestStore_Apply_OriginFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	s := newTestStore(t)
	saveSample(t, s, "p", 0)

	driver.EXPECT().AddCookies(gomock.Any(), gomock.Any()).Return(nil)
	driver.EXPECT().SetOriginStorage(gomock.Any(), gomock.Any()).Return(errors.New("navigation timeout"))

	assert.True(t, s.Apply(context.Background(), driver, "p", 0))
}

func TestStore_Apply_Refused(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		meta    *models.SessionMetadata
	}{
		{name: "no metadata", profile: "Case Manager", meta: nil},
		{name: "empty profile name", profile: "Case Manager", meta: &models.SessionMetadata{Username: "u"}},
		{name: "other profile", profile: "Case Manager", meta: &models.SessionMetadata{ProfileName: "System Admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			driver := mock.NewMockStorageDriver(ctrl) // no calls expected
			s := newTestStore(t)
			saveSample(t, s, tt.profile, 0)
			replaceMetadata(t, s, tt.profile, 0, tt.meta)

			assert.False(t, s.Apply(context.Background(), driver, tt.profile, 0))
			assert.True(t, s.Exists(tt.profile, 0), "a refused session is not deleted")
		})
	}
}

func TestStore_Apply_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	s := newTestStore(t)

	assert.False(t, s.Apply(context.Background(), driver, "p", 3))
}

func TestStore_Apply_CookieFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	driver := mock.NewMockStorageDriver(ctrl)
	s := newTestStore(t)
	saveSample(t, s, "p", 0)

	driver.EXPECT().AddCookies(gomock.Any(), gomock.Any()).Return(errors.New("invalid cookie"))

	assert.False(t, s.Apply(context.Background(), driver, "p", 0))
}

func TestStore_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newTestStore(t)
	driver := mock.NewMockStorageDriver(ctrl)
	driver.EXPECT().StorageState(gomock.Any()).Return(sampleState(), nil)
	require.NoError(t, s.Save(context.Background(), driver, "p", 0, "u"))

	s.Delete("p", 0)
	assert.False(t, s.Exists("p", 0))

	// deleting again is a no-op
	s.Delete("p", 0)
}

func TestStore_WorkersDoNotShareFiles(t *testing.T) {
	s := newTestStore(t)
	assert.NotEqual(t, s.Path("p", 0), s.Path("p", 1))
}
