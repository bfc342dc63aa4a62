package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type stubFeedbackRepo struct {
	nextID   int64
	created  []*models.Feedback
	byID     map[int64]models.Feedback
	enriched map[int64]struct {
		text      *string
		sentiment *models.Sentiment
	}
	listDept []models.Feedback
	deleted  []int64
	revoked  []int64
}

func newStubFeedbackRepo() *stubFeedbackRepo {
	return &stubFeedbackRepo{
		nextID: 1,
		byID:   map[int64]models.Feedback{},
		enriched: map[int64]struct {
			text      *string
			sentiment *models.Sentiment
		}{},
	}
}

func (r *stubFeedbackRepo) Create(_ context.Context, fb *models.Feedback) error {
	fb.ID = r.nextID
	r.nextID++
	r.created = append(r.created, fb)
	r.byID[fb.ID] = *fb
	return nil
}

func (r *stubFeedbackRepo) FindByID(_ context.Context, id int64) (*models.Feedback, error) {
	fb, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := fb
	return &copied, nil
}

func (r *stubFeedbackRepo) UpdateEnrichment(_ context.Context, id int64, text *string, sentiment *models.Sentiment) error {
	r.enriched[id] = struct {
		text      *string
		sentiment *models.Sentiment
	}{text, sentiment}
	return nil
}

func (r *stubFeedbackRepo) ListByStudent(_ context.Context, studentID string) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, fb := range r.byID {
		if fb.StudentID == studentID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (r *stubFeedbackRepo) ListByDepartment(_ context.Context, _ int64, _ models.DepartmentFeedbackFilter) ([]models.Feedback, error) {
	return r.listDept, nil
}

func (r *stubFeedbackRepo) Delete(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	delete(r.byID, id)
	return nil
}

func (r *stubFeedbackRepo) RevokeAnonymity(_ context.Context, id int64) error {
	r.revoked = append(r.revoked, id)
	fb := r.byID[id]
	fb.AnonymityRevoked = true
	r.byID[id] = fb
	return nil
}

type stubCategoryRepo struct {
	categories map[int64]models.FeedbackCategory
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*models.FeedbackCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &category, nil
}

type stubGateway struct {
	configured    bool
	transcript    string
	transcribeErr error
	sentiment     string
	sentimentErr  error
	analyzed      []string
	transcribed   []string
	summary       string
	summarizeErr  error
	prompts       []string
}

func (g *stubGateway) Configured() bool { return g.configured }

func (g *stubGateway) Transcribe(_ context.Context, audioPath string) (string, error) {
	g.transcribed = append(g.transcribed, audioPath)
	if g.transcribeErr != nil {
		return "", g.transcribeErr
	}
	return g.transcript, nil
}

func (g *stubGateway) ClassifySentiment(_ context.Context, text string) (string, error) {
	g.analyzed = append(g.analyzed, text)
	if g.sentimentErr != nil {
		return "", g.sentimentErr
	}
	return g.sentiment, nil
}

func (g *stubGateway) Summarize(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.summarizeErr != nil {
		return "", g.summarizeErr
	}
	return g.summary, nil
}

type stubAudioStore struct {
	deleted []string
}

func (s *stubAudioStore) Delete(filename string) error {
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *stubAudioStore) Path(filename string) string { return "/media/" + filename }

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func newFeedbackFixture(gateway *stubGateway) (*FeedbackService, *stubFeedbackRepo, *stubAudioStore) {
	repo := newStubFeedbackRepo()
	categories := &stubCategoryRepo{categories: map[int64]models.FeedbackCategory{
		1: {ID: 1, Name: models.CategoryTeaching},
		2: {ID: 2, Name: models.CategoryLibrary},
	}}
	audio := &stubAudioStore{}
	cache := NewCacheService(nil, false, 0, zap.NewNop())
	svc := NewFeedbackService(repo, categories, gateway, audio, cache, nil, zap.NewNop())
	return svc, repo, audio
}

func studentActor() models.Actor {
	return models.Actor{UserID: "student-1", Role: models.RoleStudent, DepartmentID: int64Ptr(7)}
}

func TestSubmitRejectsUnknownCategory(t *testing.T) {
	svc, _, _ := newFeedbackFixture(&stubGateway{})

	_, err := svc.Submit(context.Background(), studentActor(), SubmitFeedbackRequest{
		CategoryID:  99,
		InputMethod: models.InputText,
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmitRejectsEmptyTextSubmission(t *testing.T) {
	svc, _, _ := newFeedbackFixture(&stubGateway{})

	_, err := svc.Submit(context.Background(), studentActor(), SubmitFeedbackRequest{
		CategoryID:  1,
		InputMethod: models.InputText,
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmitRejectsAudioWithoutRecording(t *testing.T) {
	svc, _, _ := newFeedbackFixture(&stubGateway{})

	_, err := svc.Submit(context.Background(), studentActor(), SubmitFeedbackRequest{
		CategoryID:   1,
		InputMethod:  models.InputAudio,
		TextFeedback: "still no recording",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmitRejectsOutOfRangeRating(t *testing.T) {
	svc, _, _ := newFeedbackFixture(&stubGateway{})

	req := SubmitFeedbackRequest{CategoryID: 1, InputMethod: models.InputText}
	req.Ratings[0] = intPtr(6)
	_, err := svc.Submit(context.Background(), studentActor(), req)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmitRatingsOnlyAnalyzesSyntheticText(t *testing.T) {
	gateway := &stubGateway{configured: true, sentiment: "POSITIVE"}
	svc, repo, _ := newFeedbackFixture(gateway)

	req := SubmitFeedbackRequest{CategoryID: 1, InputMethod: models.InputText}
	req.Ratings[0] = intPtr(5)
	req.Ratings[1] = intPtr(4)

	fb, err := svc.Submit(context.Background(), studentActor(), req)
	require.NoError(t, err)

	require.Len(t, gateway.analyzed, 1)
	require.Equal(t,
		"For the question 'Clarity of explanations?', the rating given was 'Excellent'. "+
			"For the question 'Instructor engagement?', the rating given was 'Good'.",
		gateway.analyzed[0])

	require.NotNil(t, fb.Sentiment)
	require.Equal(t, models.SentimentPositive, *fb.Sentiment)
	require.Equal(t, models.EnrichmentEnriched, fb.State)
	require.Equal(t, int64Ptr(7), fb.DepartmentID)

	enriched := repo.enriched[fb.ID]
	require.Nil(t, enriched.text, "synthetic text is analyzed but never stored")
	require.NotNil(t, enriched.sentiment)
}

func TestSubmitTypedTextIsAnalyzedVerbatim(t *testing.T) {
	gateway := &stubGateway{configured: true, sentiment: "NEGATIVE"}
	svc, _, _ := newFeedbackFixture(gateway)

	fb, err := svc.Submit(context.Background(), studentActor(), SubmitFeedbackRequest{
		CategoryID:   2,
		InputMethod:  models.InputText,
		TextFeedback: "The library closes far too early.",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"The library closes far too early."}, gateway.analyzed)
	require.Equal(t, models.SentimentNegative, *fb.Sentiment)
}

func TestSubmitAudioTranscriptReplacesText(t *testing.T) {
	gateway := &stubGateway{configured: true, transcript: "great teaching overall", sentiment: "POSITIVE"}
	svc, repo, _ := newFeedbackFixture(gateway)

	fb, err := svc.Submit(context.Background(), studentActor(), SubmitFeedbackRequest{
		CategoryID:    1,
		InputMethod:   models.InputAudio,
		AudioFilename: "rec.webm",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"/media/rec.webm"}, gateway.transcribed)
	require.NotNil(t, fb.TextFeedback)
	require.Equal(t, "great teaching overall", *fb.TextFeedback)
	require.Equal(t, []string{"great teaching overall"}, gateway.analyzed)

	enriched := repo.enriched[fb.ID]
	require.NotNil(t, enriched.text)
	require.Equal(t, "great teaching overall", *enriched.text)
}

func TestSubmitTranscriptionFailureIsNotFatal(t *testing.T) {
	gateway := &stubGateway{configured: true, transcribeErr: errors.New("model offline")}
	svc, _, _ := newFeedbackFixture(gateway)

	fb, err := svc.Submit(context.Background(), studentActor(), SubmitFeedbackRequest{
		CategoryID:    1,
		InputMethod:   models.InputAudio,
		AudioFilename: "rec.webm",
	})
	require.NoError(t, err, "enrichment trouble must never fail the submission")

	require.NotNil(t, fb.TextFeedback)
	require.Equal(t, TranscriptionFailedNotice, *fb.TextFeedback)
	require.Nil(t, fb.Sentiment)
	require.Empty(t, gateway.analyzed, "the failure notice is never fed to sentiment analysis")
	require.Equal(t, models.EnrichmentEnriched, fb.State)
}

func TestSubmitTranscriptionFailureKeepsTypedText(t *testing.T) {
	gateway := &stubGateway{configured: true, transcribeErr: errors.New("model offline"), sentiment: "NEUTRAL"}
	svc, _, _ := newFeedbackFixture(gateway)

	fb, err := svc.Submit(context.Background(), studentActor(), SubmitFeedbackRequest{
		CategoryID:    1,
		InputMethod:   models.InputAudio,
		TextFeedback:  "typed alongside the recording",
		AudioFilename: "rec.webm",
	})
	require.NoError(t, err)
	require.Equal(t, "typed alongside the recording", *fb.TextFeedback)
	require.Equal(t, []string{"typed alongside the recording"}, gateway.analyzed)
}

func TestSubmitWithoutGatewayLeavesSentimentEmpty(t *testing.T) {
	gateway := &stubGateway{configured: false}
	svc, _, _ := newFeedbackFixture(gateway)

	req := SubmitFeedbackRequest{CategoryID: 1, InputMethod: models.InputText, TextFeedback: "fine"}
	fb, err := svc.Submit(context.Background(), studentActor(), req)
	require.NoError(t, err)
	require.Nil(t, fb.Sentiment)
	require.Empty(t, gateway.analyzed)
	require.Empty(t, gateway.transcribed)
	require.Equal(t, models.EnrichmentEnriched, fb.State)
}

func TestGetDeniesForeignAndMissingAlike(t *testing.T) {
	svc, repo, _ := newFeedbackFixture(&stubGateway{})
	repo.byID[5] = models.Feedback{ID: 5, StudentID: "someone-else", DepartmentID: int64Ptr(9)}

	_, errForeign := svc.Get(context.Background(), studentActor(), 5)
	_, errMissing := svc.Get(context.Background(), studentActor(), 404)

	require.Equal(t, appErrors.FromError(errForeign).Code, appErrors.FromError(errMissing).Code)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(errForeign).Code)
}

func TestGetMasksAnonymousIdentityFromCoordinator(t *testing.T) {
	svc, repo, _ := newFeedbackFixture(&stubGateway{})
	repo.byID[5] = models.Feedback{ID: 5, StudentID: "student-1", DepartmentID: int64Ptr(7), IsAnonymous: true}

	coordinator := models.Actor{UserID: "coord-1", Role: models.RoleCoordinator, DepartmentID: int64Ptr(7)}
	fb, err := svc.Get(context.Background(), coordinator, 5)
	require.NoError(t, err)
	require.Empty(t, fb.StudentID)

	owner, err := svc.Get(context.Background(), studentActor(), 5)
	require.NoError(t, err)
	require.Equal(t, "student-1", owner.StudentID, "owners always see themselves")
}

func TestListDepartmentMasksUnrevokedOnly(t *testing.T) {
	svc, repo, _ := newFeedbackFixture(&stubGateway{})
	repo.listDept = []models.Feedback{
		{ID: 1, StudentID: "student-1", IsAnonymous: true},
		{ID: 2, StudentID: "student-2", IsAnonymous: true, AnonymityRevoked: true},
		{ID: 3, StudentID: "student-3"},
	}

	coordinator := models.Actor{UserID: "coord-1", Role: models.RoleCoordinator, DepartmentID: int64Ptr(7)}
	feedback, err := svc.ListDepartment(context.Background(), coordinator, models.DepartmentFeedbackFilter{})
	require.NoError(t, err)
	require.Empty(t, feedback[0].StudentID)
	require.Equal(t, "student-2", feedback[1].StudentID)
	require.Equal(t, "student-3", feedback[2].StudentID)
}

func TestDeleteRemovesAudioFile(t *testing.T) {
	svc, repo, audio := newFeedbackFixture(&stubGateway{})
	path := "rec.webm"
	repo.byID[5] = models.Feedback{ID: 5, StudentID: "student-1", AudioPath: &path}

	require.NoError(t, svc.Delete(context.Background(), studentActor(), 5))
	require.Equal(t, []int64{5}, repo.deleted)
	require.Equal(t, []string{"rec.webm"}, audio.deleted)
}

func TestRevokeAnonymity(t *testing.T) {
	svc, repo, _ := newFeedbackFixture(&stubGateway{})
	repo.byID[5] = models.Feedback{ID: 5, StudentID: "student-1", IsAnonymous: true}
	repo.byID[6] = models.Feedback{ID: 6, StudentID: "student-1"}

	fb, err := svc.RevokeAnonymity(context.Background(), studentActor(), 5)
	require.NoError(t, err)
	require.True(t, fb.AnonymityRevoked)
	require.Equal(t, []int64{5}, repo.revoked)

	again, err := svc.RevokeAnonymity(context.Background(), studentActor(), 5)
	require.NoError(t, err)
	require.True(t, again.AnonymityRevoked)
	require.Equal(t, []int64{5}, repo.revoked, "already revoked rows are left alone")

	_, err = svc.RevokeAnonymity(context.Background(), studentActor(), 6)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
