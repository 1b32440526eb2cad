package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"medinfo-go-app/config"
	"medinfo-go-app/internal/dispatcher"
	"medinfo-go-app/internal/fetch"
	"medinfo-go-app/internal/helpers"
	"medinfo-go-app/internal/parsing"
)

type application struct {
	cfg      config.AppConfig
	pubmed   *fetch.Fetcher
	pmc      *fetch.Fetcher
	dailymed *fetch.Fetcher
	emc      *fetch.Fetcher
	openfda  *fetch.Fetcher
	mhra     *fetch.Fetcher
}

func main() {
	// Load environment variables
	helpers.LoadEnv()
	log.Println("app env: " + helpers.GetEnvOr("APP_ENV", "local"))

	cfg := config.Load()
	cache := buildCache(cfg)

	newFetcher := func(source string) *fetch.Fetcher {
		// Each upstream source owns its own limiter instance
		limiter := fetch.NewLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)
		return fetch.New(source, limiter, cache, cfg.Cache.DocumentTTL)
	}

	app := &application{
		cfg:      cfg,
		pubmed:   newFetcher(fetch.SourcePubMed),
		pmc:      newFetcher(fetch.SourcePMC),
		dailymed: newFetcher(fetch.SourceDailyMed),
		emc:      newFetcher(fetch.SourceEMC),
		openfda:  newFetcher(fetch.SourceOpenFDA),
		mhra:     newFetcher(fetch.SourceMHRA),
	}

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		host, _ := os.Hostname()
		c.JSON(http.StatusOK, gin.H{"hostname": host})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"healthy": true})
	})

	r.GET("/article/:pmid", app.getArticle)
	r.GET("/article/:pmid/citation", app.getCitation)
	r.GET("/fulltext/:id", app.getFullText)
	r.GET("/label/us", app.getUSLabel)
	r.GET("/label/uk", app.getUKLabel)
	r.GET("/label/compare", app.compareLabels)
	r.POST("/drugs/approvals", app.batchApprovals)

	r.Run()
}

// buildCache prefers the shared DynamoDB cache when a table is configured,
// otherwise falls back to the in-process cache.
func buildCache(cfg config.AppConfig) helpers.Cache {
	if cfg.Cache.TableName == "" {
		log.Println("CACHE_TABLE not set, using in-memory cache")
		return helpers.NewMemoryCache()
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(helpers.GetEnvVariable("AWS_REGION")),
		Credentials: credentials.NewStaticCredentials(
			helpers.GetEnvVariable("AWS_ACCESS_KEY_ID"),
			helpers.GetEnvVariable("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	})
	if err != nil {
		log.Fatal("Error creating AWS session:", err)
	}
	return helpers.NewDynamoCache(sess, cfg.Cache.TableName)
}

func (app *application) fetchArticle(ctx context.Context, pmid string) (*parsing.Article, error) {
	raw, err := app.pubmed.Get(ctx, fetch.PubMedArticleURL(pmid))
	if err != nil {
		return nil, err
	}
	return parsing.ParsePubMedArticle(raw)
}

func (app *application) getArticle(c *gin.Context) {
	article, err := app.fetchArticle(c.Request.Context(), c.Param("pmid"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if c.Query("abstract") == "plain" {
		if plain := article.PlainAbstract(); plain != "" {
			article.Abstract = []parsing.AbstractSection{{Text: plain}}
		} else {
			article.Abstract = nil
		}
	}
	c.JSON(http.StatusOK, article)
}

func (app *application) getCitation(c *gin.Context) {
	article, err := app.fetchArticle(c.Request.Context(), c.Param("pmid"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	style := parsing.CitationStyle(c.DefaultQuery("style", string(parsing.StyleAPA)))
	citation, err := parsing.FormatCitation(article, style)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pmid": article.PMID, "style": style, "citation": citation})
}

func (app *application) getFullText(c *gin.Context) {
	id := c.Param("id")
	raw, err := app.pmc.Get(c.Request.Context(), fetch.PMCArticleURL(id))
	if err != nil {
		abortWithError(c, err)
		return
	}
	fullText, err := parsing.ParseFullText(raw)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if fullText.ID == "" {
		fullText.ID = id
	}
	c.JSON(http.StatusOK, fullText)
}

func (app *application) fetchUSLabel(ctx context.Context, drug string, codes []string) (*parsing.Label, error) {
	searchRaw, err := app.dailymed.Get(ctx, fetch.DailyMedSearchURL(drug))
	if err != nil {
		return nil, err
	}
	setID, err := parsing.ParseDailyMedSearch(searchRaw)
	if err != nil {
		return nil, err
	}
	raw, err := app.dailymed.Get(ctx, fetch.DailyMedLabelURL(setID))
	if err != nil {
		return nil, err
	}
	return parsing.ParseUSLabel(raw, codes)
}

func (app *application) fetchUKLabel(ctx context.Context, drug string, requests []string) (*parsing.Label, error) {
	searchRaw, err := app.emc.Get(ctx, fetch.EMCSearchURL(drug))
	if err != nil {
		return nil, err
	}
	productID, err := parsing.ParseEMCSearch(searchRaw)
	if err != nil {
		return nil, err
	}
	raw, err := app.emc.Get(ctx, fetch.EMCLabelURL(productID))
	if err != nil {
		return nil, err
	}
	return parsing.ParseUKLabel(raw, productID, requests)
}

func (app *application) getUSLabel(c *gin.Context) {
	drug := c.Query("drug")
	if drug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "drug query parameter is required"})
		return
	}
	label, err := app.fetchUSLabel(c.Request.Context(), drug, splitCSV(c.Query("sections")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

func (app *application) getUKLabel(c *gin.Context) {
	drug := c.Query("drug")
	if drug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "drug query parameter is required"})
		return
	}
	label, err := app.fetchUKLabel(c.Request.Context(), drug, splitCSV(c.Query("sections")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

// compareLabels fetches both jurisdictions independently so one slow or
// broken upstream cannot block the other; only a double failure is an
// error.
func (app *application) compareLabels(c *gin.Context) {
	drug := c.Query("drug")
	if drug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "drug query parameter is required"})
		return
	}

	var (
		usLabel, ukLabel *parsing.Label
		usErr, ukErr     error
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		usLabel, usErr = app.fetchUSLabel(ctx, drug, nil)
		return nil
	})
	g.Go(func() error {
		ukLabel, ukErr = app.fetchUKLabel(ctx, drug, nil)
		return nil
	})
	_ = g.Wait()

	if usErr != nil && ukErr != nil {
		abortWithError(c, &parsing.AggregateError{US: usErr, UK: ukErr})
		return
	}
	if usErr != nil {
		log.Println("US label fetch failed:", usErr)
	}
	if ukErr != nil {
		log.Println("UK label fetch failed:", ukErr)
	}

	mappings := parsing.FilterCrosswalk(splitCSV(c.Query("topics")))
	c.JSON(http.StatusOK, parsing.CompareLabels(usLabel, ukLabel, mappings))
}

// lookupApprovals resolves one name against both jurisdictions; branch
// outcomes are captured independently and merged after both settle.
func (app *application) lookupApprovals(ctx context.Context, name string) (dispatcher.Result, error) {
	var (
		usEntries, ukEntries []parsing.DrugApproval
		usErr, ukErr         error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := app.openfda.Get(ctx, fetch.OpenFDAApprovalsURL(name))
		if err != nil {
			usErr = err
			return nil
		}
		usEntries, usErr = parsing.ParseOpenFDAApprovals(raw)
		return nil
	})
	g.Go(func() error {
		raw, err := app.mhra.Get(ctx, fetch.MHRAProductsURL(name))
		if err != nil {
			ukErr = err
			return nil
		}
		ukEntries, ukErr = parsing.ParseMHRAProducts(raw)
		return nil
	})
	_ = g.Wait()

	if usErr != nil && ukErr != nil {
		return dispatcher.Result{}, &parsing.AggregateError{US: usErr, UK: ukErr}
	}
	merged := parsing.MergeApprovals(append(usEntries, ukEntries...))
	return dispatcher.Result{Name: name, Entries: merged}, nil
}

func (app *application) batchApprovals(c *gin.Context) {
	var body struct {
		Names []string `json:"names"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Names) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "names list is required"})
		return
	}

	results := dispatcher.BatchLookup(c.Request.Context(), body.Names, app.cfg.Batch.WorkerCount, app.lookupApprovals)

	type row struct {
		Name    string                 `json:"name"`
		Entries []parsing.DrugApproval `json:"entries,omitempty"`
		Error   string                 `json:"error,omitempty"`
	}
	rows := make([]row, 0, len(results))
	for _, r := range results {
		out := row{Name: r.Name, Entries: r.Entries}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		rows = append(rows, out)
	}
	c.JSON(http.StatusOK, gin.H{"results": rows})
}

func abortWithError(c *gin.Context, err error) {
	var agg *parsing.AggregateError
	switch {
	case errors.Is(err, parsing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &agg):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
