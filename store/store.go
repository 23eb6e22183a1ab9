package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/askdesk/askdesk/internal/profile"
	"github.com/askdesk/askdesk/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// userCache keeps authenticated users hot; every bearer-token request
	// resolves a user id.
	userCache *cache.TieredCache

	// queryCache holds per-user query logs for the conversation list, which
	// is re-fetched on every picker open. Invalidated on any write to the
	// user's log.
	queryCache *cache.TieredCache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	userCache, _ := cache.NewTieredCache(nil)
	queryCache, _ := cache.NewTieredCache(nil)

	return &Store{
		driver:     driver,
		profile:    profile,
		userCache:  userCache,
		queryCache: queryCache,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.userCache.Close()
	s.queryCache.Close()
	return s.driver.Close()
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(ctx, userCacheKey(user.ID), user, 10*time.Minute)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns a single user matching find, or nil when absent.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil && find.Email == nil && find.UID == nil {
		if cached, ok := s.userCache.Get(ctx, userCacheKey(*find.ID)); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	user := users[0]
	s.userCache.Set(ctx, userCacheKey(user.ID), user, 10*time.Minute)
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	if err := s.driver.DeleteUser(ctx, delete); err != nil {
		return err
	}
	s.userCache.Delete(ctx, userCacheKey(delete.ID))
	s.queryCache.Delete(ctx, queryCacheKey(delete.ID))
	return nil
}

func (s *Store) CreateQuery(ctx context.Context, create *Query) (*Query, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	query, err := s.driver.CreateQuery(ctx, create)
	if err != nil {
		return nil, err
	}
	s.queryCache.Delete(ctx, queryCacheKey(query.UserID))
	return query, nil
}

func (s *Store) ListQueries(ctx context.Context, find *FindQuery) ([]*Query, error) {
	// Only the whole-log-by-user read is cached; it backs the conversation
	// list and is by far the hottest shape.
	cacheable := find.UserID != nil && find.ID == nil && find.UID == nil && find.SessionID == nil && find.Type == nil
	if cacheable {
		if cached, ok := s.queryCache.Get(ctx, queryCacheKey(*find.UserID)); ok {
			if queries, ok := cached.([]*Query); ok {
				return queries, nil
			}
		}
	}

	queries, err := s.driver.ListQueries(ctx, find)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.queryCache.Set(ctx, queryCacheKey(*find.UserID), queries, time.Minute)
	}
	return queries, nil
}

func (s *Store) DeleteQueries(ctx context.Context, delete *DeleteQuery) error {
	if err := s.driver.DeleteQueries(ctx, delete); err != nil {
		return err
	}
	if delete.UserID != nil {
		s.queryCache.Delete(ctx, queryCacheKey(*delete.UserID))
	} else {
		// Without the owner we cannot target one entry.
		s.queryCache.Clear(ctx)
	}
	return nil
}

func (s *Store) CreateDocument(ctx context.Context, create *Document) (*Document, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	return s.driver.CreateDocument(ctx, create)
}

func (s *Store) ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error) {
	return s.driver.ListDocuments(ctx, find)
}

func (s *Store) DeleteDocument(ctx context.Context, delete *DeleteDocument) error {
	return s.driver.DeleteDocument(ctx, delete)
}

func (s *Store) UpsertDocumentEmbedding(ctx context.Context, embedding *DocumentEmbedding) (*DocumentEmbedding, error) {
	if embedding.CreatedTs == 0 {
		embedding.CreatedTs = time.Now().Unix()
	}
	return s.driver.UpsertDocumentEmbedding(ctx, embedding)
}

func (s *Store) VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*DocumentWithScore, error) {
	return s.driver.VectorSearch(ctx, opts)
}

func userCacheKey(id int32) string {
	return fmt.Sprintf("user:%d", id)
}

func queryCacheKey(userID int32) string {
	return fmt.Sprintf("queries:user:%d", userID)
}
