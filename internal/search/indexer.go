// internal/search/indexer.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	stderrors "admissions-workers/internal/common/errors"
	"admissions-workers/internal/common/logger"
	"admissions-workers/internal/models"
)

// ResultIndexer mirrors eligibility results into Elasticsearch so staff can
// search and aggregate across programs. Indexing is best-effort: the database
// record is the source of truth.
type ResultIndexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewResultIndexer(client *elasticsearch.Client, index string, log logger.Logger) *ResultIndexer {
	return &ResultIndexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "result-indexer"}),
	}
}

// Index writes the result document keyed by application id, so re-evaluations
// overwrite the previous document.
func (i *ResultIndexer) Index(ctx context.Context, result *models.EligibilityResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return stderrors.NewSearchIndexFailedError(result.ApplicationID, err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: result.ApplicationID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return stderrors.NewSearchIndexFailedError(result.ApplicationID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return stderrors.NewSearchIndexFailedError(result.ApplicationID,
			fmt.Errorf("index response: %s", res.Status()))
	}

	i.logger.Debug("result indexed", map[string]interface{}{
		"applicationId": result.ApplicationID,
		"index":         i.index,
	})
	return nil
}
