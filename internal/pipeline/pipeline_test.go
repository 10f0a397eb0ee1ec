package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/ocr"
	"github.com/fineprint/contract-analyzer/internal/repository"
)

const sampleContract = "SERVICE AGREEMENT\n" +
	"This Agreement is entered into between Acme Corp and Widget LLC, for consulting services.\n" +
	"Effective Date: January 1, 2024\n" +
	"Total amount: $50,000.00\n" +
	"Payment Terms: Net 30 days from invoice\n" +
	"Either party may terminate this Agreement upon 30 days written notice.\n" +
	"All Confidential Information shall remain secret.\n" +
	"This Agreement is governed by the laws of the State of Delaware.\n"

type stubSource struct {
	res ocr.ExtractionResult
	err error
}

func (s stubSource) Extract(_ context.Context, _ string) (ocr.ExtractionResult, error) {
	return s.res, s.err
}

func textDoc(text string) entity.RawDocument {
	return entity.RawDocument{
		Text: text,
		Metadata: entity.DocumentMetadata{
			Title:     "service-agreement",
			Type:      constants.TEXT,
			WordCount: len(strings.Fields(text)),
		},
	}
}

func newTestProcessor(src DocumentSource, repo repository.AnalysisRepository) *Processor {
	return NewFromConfig(common.LoadConfig(), src, nil, repo, nil)
}

func TestAnalyzeDocument_HeuristicWhenNoClassifier(t *testing.T) {
	p := newTestProcessor(nil, nil)

	rep, err := p.AnalyzeDocument(context.Background(), textDoc(sampleContract))
	require.NoError(t, err)

	assert.NotEqual(t, "", rep.ID.String())
	assert.Equal(t, "service-agreement", rep.Terms.Source)
	require.NotNil(t, rep.Terms.EffectiveDate)
	assert.Equal(t, "January 1, 2024", *rep.Terms.EffectiveDate)
	assert.Equal(t, []string{"Acme Corp", "Widget LLC"}, rep.Terms.Parties)

	assert.Equal(t, constants.ClauseSourceHeuristic, rep.Analysis.ClauseSource)
	assert.NotEmpty(t, rep.Analysis.Clauses)
	assert.NotEmpty(t, rep.Analysis.Terms)
	assert.GreaterOrEqual(t, rep.Analysis.RiskScore, 0.0)
	assert.LessOrEqual(t, rep.Analysis.RiskScore, 100.0)
	assert.Contains(t, rep.Analysis.Summary, "Overall risk level: ")
	assert.False(t, rep.CreatedAt.IsZero())
}

func TestAnalyzeDocument_EmptyTextIsNoContent(t *testing.T) {
	p := newTestProcessor(nil, nil)

	_, err := p.AnalyzeDocument(context.Background(), textDoc("  \n\t "))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoContent))
}

func TestAnalyzeDocument_InvalidMetadata(t *testing.T) {
	p := newTestProcessor(nil, nil)

	doc := textDoc(sampleContract)
	doc.Metadata.Type = "spreadsheet"
	doc.Metadata.Title = strings.Repeat("t", MaxTitleLength+1)

	_, err := p.AnalyzeDocument(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "type")
}

func TestAnalyzeDocument_SavesToRepository(t *testing.T) {
	ctx := context.Background()
	db, err := repository.OpenSQLite(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo, err := repository.NewSQLiteAnalysisRepository(ctx, db, nil)
	require.NoError(t, err)

	p := newTestProcessor(nil, repo)
	rep, err := p.AnalyzeDocument(ctx, textDoc(sampleContract))
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.Analysis.RiskLevel, stored.Analysis.RiskLevel)
	assert.Equal(t, rep.Terms.Parties, stored.Terms.Parties)
}

func TestProcessFile_UsesPathAsSource(t *testing.T) {
	doc := textDoc(sampleContract)
	p := newTestProcessor(stubSource{res: ocr.ExtractionResult{Document: doc, Method: "plain-text", Confidence: 1}}, nil)

	rep, err := p.ProcessFile(context.Background(), "/contracts/msa.txt")
	require.NoError(t, err)
	assert.Equal(t, "/contracts/msa.txt", rep.Terms.Source)
	assert.Equal(t, "service-agreement", rep.Document.Title)
}

func TestProcessFile_IngestError(t *testing.T) {
	p := newTestProcessor(stubSource{err: errors.New("boom")}, nil)

	_, err := p.ProcessFile(context.Background(), "/contracts/broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestIngestStage_FlagsLowConfidenceImages(t *testing.T) {
	doc := textDoc(sampleContract)
	doc.Metadata.Type = constants.IMAGE
	stage := NewIngestStage(stubSource{res: ocr.ExtractionResult{Document: doc, Confidence: 0.3}}, 0, nil)

	res, err := stage.Run(context.Background(), "scan.png")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "below")
}

func TestExtractTerms_OnlyFields(t *testing.T) {
	p := newTestProcessor(nil, nil)
	terms := p.ExtractTerms(context.Background(), sampleContract, "inline")
	assert.Equal(t, "inline", terms.Source)
	require.NotNil(t, terms.GoverningLaw)
	assert.Contains(t, *terms.GoverningLaw, "Delaware")
}

func TestAnalyzeDocument_ConcurrentCallsAreIndependent(t *testing.T) {
	p := newTestProcessor(nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	reports := make([]*entity.Report, 8)
	errs := make([]error, 8)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], errs[i] = p.AnalyzeDocument(ctx, textDoc(sampleContract))
		}(i)
	}
	wg.Wait()

	for i := range reports {
		require.NoError(t, errs[i])
		assert.Equal(t, reports[0].Analysis.RiskScore, reports[i].Analysis.RiskScore)
		assert.Equal(t, len(reports[0].Analysis.Terms), len(reports[i].Analysis.Terms))
	}
}
