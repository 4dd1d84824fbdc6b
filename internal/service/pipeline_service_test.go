package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voicefaq/internal/models"
)

type recordingSpeaker struct {
	texts []string
	lang  string
	err   error
}

func (s *recordingSpeaker) Speak(_ context.Context, text, lang string) error {
	s.texts = append(s.texts, text)
	s.lang = lang
	return s.err
}

type memoryRecorder struct {
	entries []*models.QueryLog
	err     error
}

func (r *memoryRecorder) Record(_ context.Context, entry *models.QueryLog) error {
	r.entries = append(r.entries, entry)
	return r.err
}

const noVeganFAQ = `question,answer
What time do you open?,We open at 8 AM.
Do you deliver?,Yes within 5 miles.
Where are you located?,
`

func newTestPipeline(t *testing.T, transcriber *fakeTranscriber, speaker *recordingSpeaker) *PipelineService {
	t.Helper()
	registry := newTestRegistry(transcriber)
	kb := &models.KnowledgeBase{
		Menu: map[string][]string{"all": {"Coffee", "Salad"}, "vegan": {"Salad"}},
		FAQ:  map[string]string{},
	}
	return NewPipelineService(
		registry,
		NewIndexCache(registry, 4, zap.NewNop()),
		kb,
		speaker,
		PipelineOptions{EmbeddingModel: testEmbeddingModel, SpeechLanguage: "en"},
		zap.NewNop(),
	)
}

func TestPipelineRunVeganQuery(t *testing.T) {
	speaker := &recordingSpeaker{}
	p := newTestPipeline(t, &fakeTranscriber{text: "  What are your vegan options?\n"}, speaker)
	faq := writeFile(t, "faq.csv", noVeganFAQ)

	result, err := p.Run(context.Background(), RunInput{AudioPath: "query.wav", FAQTablePath: faq, STTModel: "base", K: 3})
	require.NoError(t, err)

	assert.Equal(t, "What are your vegan options?", result.Transcription)
	assert.Equal(t, models.IntentMenuQuery, result.Intent)
	assert.Equal(t, "vegan", result.Entities.Diet)
	assert.True(t, len(result.Response) >= len("Vegan options: Salad."))
	assert.Equal(t, "Vegan options: Salad.", result.Response[:len("Vegan options: Salad.")])

	assert.Len(t, result.FAQMatches, 2)
	for _, m := range result.FAQMatches {
		assert.NotContains(t, m, "Where are you located?")
	}

	require.Len(t, speaker.texts, 1)
	assert.Equal(t, result.Response, speaker.texts[0])
	assert.Equal(t, "en", speaker.lang)
}

func TestPipelineRunSynthesisFailureIsIgnored(t *testing.T) {
	speaker := &recordingSpeaker{err: errors.New("no audio device")}
	p := newTestPipeline(t, &fakeTranscriber{text: "what are your hours"}, speaker)
	faq := writeFile(t, "faq.csv", noVeganFAQ)

	result, err := p.Run(context.Background(), RunInput{AudioPath: "q.wav", FAQTablePath: faq, STTModel: "base", K: 1})
	require.NoError(t, err)
	assert.Equal(t, models.IntentFAQQuery, result.Intent)
	assert.Len(t, speaker.texts, 1)
}

func TestPipelineRunTranscriptionFailure(t *testing.T) {
	boom := errors.New("unsupported audio")
	speaker := &recordingSpeaker{}
	p := newTestPipeline(t, &fakeTranscriber{err: boom}, speaker)
	faq := writeFile(t, "faq.csv", noVeganFAQ)

	_, err := p.Run(context.Background(), RunInput{AudioPath: "q.txt", FAQTablePath: faq, STTModel: "base", K: 3})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, speaker.texts)
}

func TestPipelineRunBadTable(t *testing.T) {
	p := newTestPipeline(t, &fakeTranscriber{text: "hello"}, &recordingSpeaker{})
	faq := writeFile(t, "faq.csv", "title,body\n")

	_, err := p.Run(context.Background(), RunInput{AudioPath: "q.wav", FAQTablePath: faq, STTModel: "base", K: 3})
	assert.ErrorIs(t, err, ErrDataLoad)
}

func TestPipelineRunInvalidK(t *testing.T) {
	p := newTestPipeline(t, &fakeTranscriber{text: "hello"}, &recordingSpeaker{})

	_, err := p.Run(context.Background(), RunInput{AudioPath: "q.wav", FAQTablePath: "faq.csv", STTModel: "base", K: 0})
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestPipelineRunMissingKnowledgeBase(t *testing.T) {
	registry := newTestRegistry(&fakeTranscriber{text: "vegan"})
	p := NewPipelineService(registry, NewIndexCache(registry, 1, zap.NewNop()), nil, nil,
		PipelineOptions{EmbeddingModel: testEmbeddingModel}, zap.NewNop())
	faq := writeFile(t, "faq.csv", noVeganFAQ)

	_, err := p.Run(context.Background(), RunInput{AudioPath: "q.wav", FAQTablePath: faq, STTModel: "base", K: 3})
	assert.ErrorIs(t, err, ErrMissingKnowledgeBase)
}

func TestPipelineRunRecordsQuery(t *testing.T) {
	p := newTestPipeline(t, &fakeTranscriber{text: "how much is coffee"}, &recordingSpeaker{})
	recorder := &memoryRecorder{err: errors.New("database is down")}
	p.SetRecorder(recorder)
	faq := writeFile(t, "faq.csv", noVeganFAQ)

	result, err := p.Run(context.Background(), RunInput{
		AudioPath:    "q.wav",
		FAQTablePath: faq,
		STTModel:     "small",
		K:            2,
		FAQSource:    models.FAQSourceUpload,
	})
	require.NoError(t, err)
	assert.Equal(t, "The price of coffee is $3.50.", result.Response[:len("The price of coffee is $3.50.")])

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, result.Transcription, entry.Transcription)
	assert.Equal(t, "small", entry.STTModel)
	assert.Equal(t, 2, entry.K)
	assert.Equal(t, models.FAQSourceUpload, entry.FAQSource)
	assert.Equal(t, models.InfoPrice, entry.Entities.Info)
}

func TestPipelineSanitizesTranscription(t *testing.T) {
	p := newTestPipeline(t, &fakeTranscriber{text: "vegan\xff options"}, &recordingSpeaker{})
	faq := writeFile(t, "faq.csv", noVeganFAQ)

	result, err := p.Run(context.Background(), RunInput{AudioPath: "q.wav", FAQTablePath: faq, STTModel: "base", K: 1})
	require.NoError(t, err)
	assert.Equal(t, "vegan options", result.Transcription)
}

func TestPipelineUploadedTablesBypassIndexCache(t *testing.T) {
	p := newTestPipeline(t, &fakeTranscriber{text: "do you deliver"}, &recordingSpeaker{})
	defaultTable := writeFile(t, "default.csv", noVeganFAQ)

	_, err := p.Run(context.Background(), RunInput{AudioPath: "q.wav", FAQTablePath: defaultTable, STTModel: "base", K: 1})
	require.NoError(t, err)
	require.Equal(t, 1, p.indexes.Len())
	cached, err := p.indexes.Get(context.Background(), defaultTable, testEmbeddingModel)
	require.NoError(t, err)

	// more distinct uploads than the cache holds
	for i := 0; i < 6; i++ {
		upload := writeFile(t, "upload.csv", fmt.Sprintf("question,answer\nUpload %d?,Answer %d.\n", i, i))
		result, err := p.Run(context.Background(), RunInput{
			AudioPath:    "q.wav",
			FAQTablePath: upload,
			STTModel:     "base",
			K:            1,
			FAQSource:    models.FAQSourceUpload,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{fmt.Sprintf("Upload %d?: Answer %d.", i, i)}, result.FAQMatches)
	}

	assert.Equal(t, 1, p.indexes.Len())
	again, err := p.indexes.Get(context.Background(), defaultTable, testEmbeddingModel)
	require.NoError(t, err)
	assert.Same(t, cached, again)
}
