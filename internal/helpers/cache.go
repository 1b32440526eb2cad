package helpers

import (
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/uniplaces/carbon"
)

// Cache is the time-bounded key/value store raw fetched documents pass
// through. Parsed records are never cached here; callers own that decision.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
}

type memoryItem struct {
	value     string
	expiresAt int64
}

// MemoryCache is the in-process cache used in development and tests.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem)}
}

func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return "", false
	}
	if carbon.Now().Unix() > item.expiresAt {
		delete(c.items, key)
		return "", false
	}
	return item.value, true
}

func (c *MemoryCache) Set(key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryItem{
		value:     value,
		expiresAt: carbon.Now().AddSeconds(int(ttl.Seconds())).Unix(),
	}
	return nil
}

// DynamoCache stores cached documents in a DynamoDB table so several
// sidecar instances can share one cache. Items carry an expires_at epoch;
// expired items are treated as misses and deleted lazily.
type DynamoCache struct {
	tableName string
	svc       *dynamodb.DynamoDB
}

// NewDynamoCache creates a DynamoDB-backed cache on an existing session.
func NewDynamoCache(sess *session.Session, tableName string) *DynamoCache {
	return &DynamoCache{
		tableName: tableName,
		svc:       dynamodb.New(sess),
	}
}

func (c *DynamoCache) Get(key string) (string, bool) {
	result, err := c.svc.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]*dynamodb.AttributeValue{
			"key": {S: aws.String(key)},
		},
	})
	if err != nil || len(result.Item) == 0 {
		return "", false
	}

	expiresAttr := result.Item["expires_at"]
	if expiresAttr == nil || expiresAttr.N == nil {
		return "", false
	}
	expiresAt, err := strconv.ParseInt(*expiresAttr.N, 10, 64)
	if err != nil || carbon.Now().Unix() > expiresAt {
		// Lazy expiry, best effort
		_, _ = c.svc.DeleteItem(&dynamodb.DeleteItemInput{
			TableName: aws.String(c.tableName),
			Key: map[string]*dynamodb.AttributeValue{
				"key": {S: aws.String(key)},
			},
		})
		return "", false
	}

	valueAttr := result.Item["value"]
	if valueAttr == nil || valueAttr.S == nil {
		return "", false
	}
	return *valueAttr.S, true
}

func (c *DynamoCache) Set(key string, value string, ttl time.Duration) error {
	expiresAt := carbon.Now().AddSeconds(int(ttl.Seconds())).Unix()
	_, err := c.svc.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]*dynamodb.AttributeValue{
			"key":        {S: aws.String(key)},
			"value":      {S: aws.String(value)},
			"expires_at": {N: aws.String(strconv.FormatInt(expiresAt, 10))},
		},
	})
	return err
}
