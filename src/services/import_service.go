// backend/src/services/import_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/model"
	"github.com/username/dartviewer/backend/src/models"
	"github.com/username/dartviewer/backend/src/observability"
	"github.com/username/dartviewer/backend/src/parsers/corpcode"
	"github.com/username/dartviewer/backend/src/security/validation"
)

// CorpCodeArchiveName is the file DownloadCorpCodes writes into its target directory.
const CorpCodeArchiveName = "corpCode.zip"

// ImportResult summarizes one full replace of the company lookup table.
type ImportResult struct {
	Source    string        `json:"source"`
	Format    string        `json:"format"`
	Companies int           `json:"companies"`
	Listed    int           `json:"listed"`
	Duration  time.Duration `json:"duration"`
}

// ImportService loads the OpenDART corporation code list into the lookup table.
type ImportService interface {
	// DownloadCorpCodes saves the corpCode.xml archive into dir and returns its path.
	DownloadCorpCodes(ctx context.Context, dir string) (string, error)
	// ImportFile replaces the lookup table with the entries in path (zip, XML or JSON).
	// onParsed is called once with the entry count before rows are written,
	// onProgress after every written row.
	ImportFile(ctx context.Context, path string, onParsed func(total int), onProgress func(done int)) (*ImportResult, error)
}

type importServiceImpl struct {
	db          *sql.DB
	dartClient  DartClient
	parser      *corpcode.Parser
	lookupCache *cache.Cache
}

func NewImportService(db *sql.DB, dartClient DartClient, parser *corpcode.Parser, lookupCache *cache.Cache) ImportService {
	return &importServiceImpl{
		db:          db,
		dartClient:  dartClient,
		parser:      parser,
		lookupCache: lookupCache,
	}
}

func (s *importServiceImpl) DownloadCorpCodes(ctx context.Context, dir string) (string, error) {
	const op = "ImportService.DownloadCorpCodes"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", newError(KindInternal, op, err, "failed to create %s", dir)
	}

	// Written to a temp file first so a failed download never clobbers a good archive.
	tmp, err := os.CreateTemp(dir, "corpCode-*.zip.part")
	if err != nil {
		return "", newError(KindInternal, op, err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	n, err := s.dartClient.DownloadCorpCodes(ctx, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = newError(KindInternal, op, closeErr, "failed to write archive")
	}
	if err != nil {
		return "", err
	}

	dest := filepath.Join(dir, CorpCodeArchiveName)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", newError(KindInternal, op, err, "failed to move archive into place")
	}
	logger.FromContext(ctx).Info("Corp code archive downloaded", "path", dest, "bytes", n)
	return dest, nil
}

func (s *importServiceImpl) ImportFile(ctx context.Context, path string, onParsed func(total int), onProgress func(done int)) (*ImportResult, error) {
	const op = "ImportService.ImportFile"
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindValidation, op, err, "cannot open %s", path)
	}
	defer f.Close()

	format, err := validation.DetectCorpCodeFormat(f)
	if err != nil {
		return nil, newError(KindValidation, op, err, "unrecognized corp code file")
	}

	companies, err := s.parse(f, format)
	if err != nil {
		return nil, newError(KindValidation, op, err, "failed to parse %s", path)
	}
	if len(companies) == 0 {
		return nil, newError(KindValidation, op, nil, "%s contains no companies", path)
	}
	if onParsed != nil {
		onParsed(len(companies))
	}

	count, err := model.ReplaceCompanies(ctx, s.db, companies, filepath.Base(path), onProgress)
	if err != nil {
		return nil, newError(KindInternal, op, err, "failed to replace companies")
	}
	if s.lookupCache != nil {
		s.lookupCache.Flush()
	}
	observability.CompaniesLoaded.Set(float64(count))

	listed := 0
	for _, c := range companies {
		if c.IsListed() {
			listed++
		}
	}

	result := &ImportResult{
		Source:    filepath.Base(path),
		Format:    format,
		Companies: count,
		Listed:    listed,
		Duration:  time.Since(start),
	}
	logger.FromContext(ctx).Info("Corp code import finished",
		"source", result.Source, "format", format, "companies", count, "listed", listed, "duration", result.Duration)
	return result, nil
}

func (s *importServiceImpl) parse(f *os.File, format string) ([]models.Company, error) {
	switch format {
	case validation.CorpCodeFormatZip:
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return s.parser.ParseZip(f, info.Size())
	case validation.CorpCodeFormatXML:
		return s.parser.ParseXML(f)
	case validation.CorpCodeFormatJSON:
		return s.parser.ParseJSON(f)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
