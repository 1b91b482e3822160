package curse_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wam/internal/adapters/curse"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/core/ports"
	"go.trai.ch/wam/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newProgress(t *testing.T, ctrl *gomock.Controller) (*mocks.MockProgress, *[]string) {
	t.Helper()
	var steps []string
	progress := mocks.NewMockProgress(ctrl)
	progress.EXPECT().Step(gomock.Any()).Do(func(step string) {
		steps = append(steps, step)
	}).AnyTimes()
	return progress, &steps
}

func TestProvider_Kind(t *testing.T) {
	assert.Equal(t, domain.ProviderCurse, curse.NewCurse(nil).Kind())
	assert.Equal(t, domain.ProviderAce, curse.NewAce(nil).Kind())
}

func TestProvider_URLs(t *testing.T) {
	c := curse.NewCurse(nil)
	assert.Equal(t, "https://wow.curseforge.com/projects/weakauras/files?sort=releasetype", c.FilesURL("weakauras"))
	assert.Equal(t, "https://wow.curseforge.com/projects/weakauras/files/latest", c.LatestURL("weakauras"))

	a := curse.NewAce(nil)
	assert.Equal(t, "https://wowace.com/projects/bagnon/files?sort=releasetype", a.FilesURL("bagnon"))
	assert.Equal(t, "https://wowace.com/projects/bagnon/files/latest", a.LatestURL("bagnon"))
}

func TestProvider_Resolve(t *testing.T) {
	req, err := domain.NewAddonRequest("weakauras", "curse")
	require.NoError(t, err)

	t.Run("PicksNewestEpoch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mocks.NewMockFetcher(ctrl)
		progress, steps := newProgress(t, ctrl)

		fetcher.EXPECT().
			Page(gomock.Any(), "https://wow.curseforge.com/projects/weakauras/files?sort=releasetype").
			Return(readFixture(t, "files.html"), nil)

		lock, err := curse.NewCurse(fetcher).Resolve(context.Background(), req, nil, progress)
		require.NoError(t, err)
		assert.Equal(t, domain.ResolvedLock{
			Key:         "curse/weakauras",
			ResolvedID:  "weakauras",
			Version:     "2.0.1",
			PublishedAt: 1000,
		}, lock)
		assert.Equal(t, []string{domain.StepDownloadingMetadata, domain.StepParsingMetadata}, *steps)
	})

	parseFailures := []struct {
		fixture string
		want    error
	}{
		{fixture: "empty.html", want: domain.ErrElementNotFound},
		{fixture: "missing_epoch.html", want: domain.ErrElementNotFound},
		{fixture: "bad_epoch.html", want: domain.ErrInvalidTimestamp},
	}
	for _, tt := range parseFailures {
		t.Run(tt.fixture, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := mocks.NewMockFetcher(ctrl)
			progress, _ := newProgress(t, ctrl)

			fetcher.EXPECT().Page(gomock.Any(), gomock.Any()).Return(readFixture(t, tt.fixture), nil)

			_, err := curse.NewCurse(fetcher).Resolve(context.Background(), req, nil, progress)
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrParse)
			assert.Contains(t, err.Error(), tt.want.Error())
		})
	}

	t.Run("TransportFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mocks.NewMockFetcher(ctrl)
		progress, _ := newProgress(t, ctrl)

		fetcher.EXPECT().Page(gomock.Any(), gomock.Any()).
			Return(nil, domain.TransportError(errors.New("dial tcp: no route to host")))

		_, err := curse.NewCurse(fetcher).Resolve(context.Background(), req, nil, progress)
		require.ErrorIs(t, err, domain.ErrTransport)
	})
}

func TestProvider_Fetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	progress, steps := newProgress(t, ctrl)

	req, err := domain.NewAddonRequest("bagnon", "ace")
	require.NoError(t, err)
	lock := domain.ResolvedLock{Key: "ace/bagnon", ResolvedID: "bagnon", Version: "8.1", PublishedAt: 42}
	dir := t.TempDir()

	var nameFn ports.NameFunc
	fetcher.EXPECT().
		Download(gomock.Any(), "https://wowace.com/projects/bagnon/files/latest", dir, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dir string, name ports.NameFunc) (string, error) {
			nameFn = name
			final, err := url.Parse("https://media.forgecdn.net/files/2600/1/Bagnon%208.1.zip")
			require.NoError(t, err)
			filename, err := name(final, http.Header{})
			if err != nil {
				return "", err
			}
			return filepath.Join(dir, filename), nil
		})

	archive, err := curse.NewAce(fetcher).Fetch(context.Background(), req, lock, dir, progress)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Bagnon 8.1.zip"), archive.Path)
	assert.Equal(t, lock, archive.Lock)
	assert.Equal(t, []string{domain.StepReadingFilename, domain.StepDownloading, domain.StepWritingFile}, *steps)

	root, err := url.Parse("https://media.forgecdn.net/")
	require.NoError(t, err)
	_, err = nameFn(root, http.Header{})
	require.ErrorIs(t, err, domain.ErrParse)
}
