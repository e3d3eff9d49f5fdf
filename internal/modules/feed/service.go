package feed

import (
	"context"

	"github.com/run-write/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	idx *Index
	log *zap.Logger
}

func NewService(db *gorm.DB, idx *Index, log *zap.Logger) *Service {
	return &Service{db: db, idx: idx, log: log}
}

// Index exposes the underlying redis index to the publish coordinator.
func (s *Service) Index() *Index { return s.idx }

// Get returns the community feed. Aggregate reads degrade: any storage
// failure logs and yields an empty feed rather than an error page.
func (s *Service) Get(ctx context.Context, callerID string, limit int) []FeedItem {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	ids, err := s.idx.IDs(ctx, limit)
	if err != nil {
		s.log.Error("feed index read failed", zap.Error(err))
		return []FeedItem{}
	}
	if len(ids) == 0 {
		return []FeedItem{}
	}

	var posts []models.PostModel
	if err := s.db.Preload("User").Where("id IN ?", ids).Find(&posts).Error; err != nil {
		s.log.Error("feed hydration failed", zap.Error(err))
		return []FeedItem{}
	}
	byID := make(map[string]*models.PostModel, len(posts))
	for i := range posts {
		byID[posts[i].ID] = &posts[i]
	}

	likeCounts, err := s.likeCounts(ids)
	if err != nil {
		s.log.Error("feed like counts failed", zap.Error(err))
		likeCounts = map[string]int64{}
	}
	likedByCaller := map[string]bool{}
	if callerID != "" {
		likedByCaller, err = s.likedBy(callerID, ids)
		if err != nil {
			s.log.Error("feed liked-by lookup failed", zap.Error(err))
			likedByCaller = map[string]bool{}
		}
	}

	items := make([]FeedItem, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			// Self-healing: the post is gone, drop the stale member.
			if err := s.idx.Remove(ctx, id); err != nil {
				s.log.Warn("feed orphan removal failed",
					zap.String("post", id), zap.Error(err))
			}
			continue
		}
		items = append(items, toFeedItem(p, likeCounts[id], likedByCaller[id]))
	}
	return items
}

// Reconcile rebuilds the index from the posts table, repairing any
// half-applied publish or unpublish.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	var posts []models.PostModel
	if err := s.db.Select("id", "pin_type", "published_at").Find(&posts).Error; err != nil {
		return 0, err
	}

	members := make([]Member, 0, len(posts))
	for _, p := range posts {
		members = append(members, Member{
			PostID:      p.ID,
			Tier:        p.PinType,
			PublishedAt: p.PublishedAt,
		})
	}
	if err := s.idx.Rebuild(ctx, members); err != nil {
		return 0, err
	}
	s.log.Info("feed index rebuilt", zap.Int("posts", len(members)))
	return len(members), nil
}

func (s *Service) likeCounts(postIDs []string) (map[string]int64, error) {
	type row struct {
		PostID string
		N      int64
	}
	var rows []row
	err := s.db.Model(&models.LikeModel{}).
		Where("post_id IN ?", postIDs).
		Select("post_id, COUNT(*) as n").
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.PostID] = r.N
	}
	return out, nil
}

func (s *Service) likedBy(userID string, postIDs []string) (map[string]bool, error) {
	var liked []string
	err := s.db.Model(&models.LikeModel{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(liked))
	for _, id := range liked {
		out[id] = true
	}
	return out, nil
}
