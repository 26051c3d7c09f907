// Package corpcode decodes the OpenDART corporation code list: the
// corpCode.xml zip download, the bare CORPCODE.xml inside it, and the JSON
// export of the same entries.
package corpcode

import (
	"archive/zip"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/dartviewer/backend/src/models"
)

// XMLFileName is the entry name inside the OpenDART zip archive.
const XMLFileName = "CORPCODE.xml"

var ErrXMLNotFound = errors.New("CORPCODE.xml not found in archive")

// RawCorpCode mirrors one <list> element of CORPCODE.xml.
type RawCorpCode struct {
	CorpCode    string `xml:"corp_code" json:"corp_code"`
	CorpName    string `xml:"corp_name" json:"corp_name"`
	CorpEngName string `xml:"corp_eng_name" json:"corp_eng_name"`
	StockCode   string `xml:"stock_code" json:"stock_code"`
	ModifyDate  string `xml:"modify_date" json:"modify_date"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseZip opens the archive and decodes its CORPCODE.xml entry. The entry
// name is matched case-insensitively.
func (p *Parser) ParseZip(r io.ReaderAt, size int64) ([]models.Company, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open corp code archive: %w", err)
	}
	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, XMLFileName) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()
		return p.ParseXML(rc)
	}
	return nil, ErrXMLNotFound
}

// ParseXML streams <list> elements so the ~100k entry file is never held as a DOM.
func (p *Parser) ParseXML(r io.Reader) ([]models.Company, error) {
	dec := xml.NewDecoder(r)
	var companies []models.Company
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode corp code xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "list" {
			continue
		}
		var raw RawCorpCode
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("decode corp code entry: %w", err)
		}
		if c, ok := toCompany(raw); ok {
			companies = append(companies, c)
		}
	}
	return companies, nil
}

// ParseJSON reads a JSON array of corp code entries.
func (p *Parser) ParseJSON(r io.Reader) ([]models.Company, error) {
	var raws []RawCorpCode
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode corp code json: %w", err)
	}
	companies := make([]models.Company, 0, len(raws))
	for _, raw := range raws {
		if c, ok := toCompany(raw); ok {
			companies = append(companies, c)
		}
	}
	return companies, nil
}

// toCompany trims every field; entries without a code or a name are dropped.
func toCompany(raw RawCorpCode) (models.Company, bool) {
	c := models.Company{
		CorpCode:    strings.TrimSpace(raw.CorpCode),
		CorpName:    strings.TrimSpace(raw.CorpName),
		CorpEngName: strings.TrimSpace(raw.CorpEngName),
		StockCode:   strings.TrimSpace(raw.StockCode),
		ModifyDate:  strings.TrimSpace(raw.ModifyDate),
	}
	if c.CorpCode == "" || c.CorpName == "" {
		return models.Company{}, false
	}
	return c, true
}
