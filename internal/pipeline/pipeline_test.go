package pipeline_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stockscraper/internal/fetcher"
	"stockscraper/internal/history"
	"stockscraper/internal/pipeline"
	"stockscraper/internal/testutil"
)

func TestRun_Success(t *testing.T) {
	t.Parallel()

	// Arrange: the fetcher must be asked for the AAPL history page exactly once.
	ctrl := gomock.NewController(t)
	f := NewMockDocumentFetcher(ctrl)
	want := history.URL("http://source.test", "AAPL")
	f.EXPECT().
		Fetch(gomock.Any(), want).
		Return(fetcher.Document{URL: want, StatusCode: 200, Body: testutil.HistoryPage("150.00", "151.25")}, nil).
		Times(1)

	p := pipeline.New(f, pipeline.WithBaseURL("http://source.test"))

	// Act
	out := p.Run(t.Context(), "AAPL")

	// Assert
	require.NoError(t, out.Err)
	require.Equal(t, pipeline.KindOK, out.Kind)
	require.Equal(t, http.StatusOK, out.Status())
	require.Equal(t, []string{"150.00", "151.25"}, out.Prices)
}

func TestRun_MissingTicker(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := NewMockDocumentFetcher(ctrl)
	f.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	out := pipeline.New(f).Run(t.Context(), "")

	require.Equal(t, pipeline.KindInputMissing, out.Kind)
	require.Equal(t, http.StatusForbidden, out.Status())
	require.ErrorIs(t, out.Err, pipeline.ErrTickerMissing)
	require.Nil(t, out.Prices)
}

func TestRun_MissingTicker_NeverFetches(t *testing.T) {
	t.Parallel()

	f := testutil.NewMockFetcher(testutil.HistoryPage("1.00"), nil)
	p := pipeline.New(f)

	for i := 0; i < 10; i++ {
		out := p.Run(t.Context(), "")
		require.Equal(t, http.StatusForbidden, out.Status())
	}
	require.Zero(t, f.Calls())
}

func TestRun_FetchFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"connection refused", fetcher.NewNetworkError("u", errors.New("connection refused"))},
		{"upstream 404", fetcher.ClassifyHTTPError("u", http.StatusNotFound)},
		{"timeout", fetcher.NewTimeoutError("u", context.DeadlineExceeded)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			f := NewMockDocumentFetcher(ctrl)
			f.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(fetcher.Document{}, tt.err).Times(1)

			out := pipeline.New(f).Run(t.Context(), "AAPL")

			require.Equal(t, pipeline.KindFetchFailure, out.Kind)
			require.Equal(t, http.StatusInternalServerError, out.Status())
			require.ErrorIs(t, out.Err, tt.err)
			require.Nil(t, out.Prices)
		})
	}
}

func TestRun_ExtractFailure(t *testing.T) {
	t.Parallel()

	f := testutil.NewMockFetcher("", nil)
	out := pipeline.New(f).Run(t.Context(), "AAPL")

	require.Equal(t, pipeline.KindExtractFailure, out.Kind)
	require.Equal(t, http.StatusInternalServerError, out.Status())
	require.ErrorIs(t, out.Err, history.ErrNotMarkup)
	require.Equal(t, 1, f.Calls())
}

func TestRun_EmptyColumnIsSuccess(t *testing.T) {
	t.Parallel()

	f := testutil.NewMockFetcher("<html><body><p>No results for 'ZZZZ'</p></body></html>", nil)
	out := pipeline.New(f).Run(t.Context(), "ZZZZ")

	require.Equal(t, pipeline.KindOK, out.Kind)
	require.Equal(t, http.StatusOK, out.Status())
	require.NotNil(t, out.Prices)
	require.Empty(t, out.Prices)
}

func TestRun_PassesContext(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}
	ctx := context.WithValue(t.Context(), ctxKey{}, "request")

	f := &testutil.MockFetcher{
		FetchFunc: func(got context.Context, url string) (fetcher.Document, error) {
			require.Equal(t, "request", got.Value(ctxKey{}))
			return fetcher.Document{Body: testutil.HistoryPage("1.00")}, nil
		},
	}

	out := pipeline.New(f).Run(ctx, "AAPL")
	require.Equal(t, pipeline.KindOK, out.Kind)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ok", pipeline.KindOK.String())
	require.Equal(t, "input_missing", pipeline.KindInputMissing.String())
	require.Equal(t, "fetch_failure", pipeline.KindFetchFailure.String())
	require.Equal(t, "extract_failure", pipeline.KindExtractFailure.String())
	require.Equal(t, "unknown", pipeline.Kind(42).String())
}
