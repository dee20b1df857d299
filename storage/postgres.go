package storage

import (
	"context"
	"time"

	"gmscraper/types"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// articleRecord is the persisted shape of an article.
type articleRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:512"`
	Link      string    `gorm:"size:1024;uniqueIndex"`
	Source    string    `gorm:"size:128;index"`
	Date      string    `gorm:"size:64"`
	Category  string    `gorm:"size:128;index"`
	Content   string    `gorm:"type:text"`
	Hash      string    `gorm:"size:32;index"`
	ScrapedAt time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (articleRecord) TableName() string {
	return "articles"
}

// Postgres implements Store on a Postgres database through GORM.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres opens the database and runs migrations.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&articleRecord{}); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func toRecord(a *types.Article) articleRecord {
	return articleRecord{
		Title:     a.Title,
		Link:      a.Link,
		Source:    a.Source,
		Date:      a.Date,
		Category:  a.Category,
		Content:   a.Content,
		Hash:      a.Hash,
		ScrapedAt: a.ScrapedAt,
	}
}

func fromRecord(r articleRecord) types.Article {
	return types.Article{
		Title:     r.Title,
		Link:      r.Link,
		Source:    r.Source,
		Date:      r.Date,
		Category:  r.Category,
		Content:   r.Content,
		Hash:      r.Hash,
		ScrapedAt: r.ScrapedAt,
	}
}

func (p *Postgres) UpsertArticle(ctx context.Context, article *types.Article) error {
	record := toRecord(article)
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "link"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "source", "date", "category", "content", "hash", "scraped_at", "updated_at",
		}),
	}).Create(&record).Error
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]types.Article, error) {
	var records []articleRecord
	err := p.db.WithContext(ctx).
		Order("scraped_at DESC").
		Limit(limit).
		Find(&records).Error
	return fromRecords(records), err
}

func (p *Postgres) RecentBySource(ctx context.Context, source string, limit int) ([]types.Article, error) {
	var records []articleRecord
	err := p.db.WithContext(ctx).
		Where("source = ?", source).
		Order("scraped_at DESC").
		Limit(limit).
		Find(&records).Error
	return fromRecords(records), err
}

func (p *Postgres) Search(ctx context.Context, query string, limit int) ([]types.Article, error) {
	var records []articleRecord
	pattern := "%" + query + "%"
	err := p.db.WithContext(ctx).
		Where("title ILIKE ? OR content ILIKE ?", pattern, pattern).
		Order("scraped_at DESC").
		Limit(limit).
		Find(&records).Error
	return fromRecords(records), err
}

func (p *Postgres) CountBySourceSince(ctx context.Context, source string, since time.Time) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&articleRecord{}).
		Where("source = ? AND scraped_at >= ?", source, since).
		Count(&count).Error
	return count, err
}

func (p *Postgres) LastScrapedAt(ctx context.Context, source string) (*time.Time, error) {
	var record articleRecord
	err := p.db.WithContext(ctx).
		Where("source = ?", source).
		Order("scraped_at DESC").
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := record.ScrapedAt
	return &t, nil
}

func (p *Postgres) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := p.db.WithContext(ctx).
		Model(&articleRecord{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (p *Postgres) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := p.db.WithContext(ctx).Model(&articleRecord{}).Count(&stats.Articles).Error; err != nil {
		return stats, err
	}
	if err := p.db.WithContext(ctx).Model(&articleRecord{}).Distinct("source").Count(&stats.Sources).Error; err != nil {
		return stats, err
	}

	var record articleRecord
	err := p.db.WithContext(ctx).Order("scraped_at DESC").First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	t := record.ScrapedAt
	stats.LastScrape = &t
	return stats, nil
}

func fromRecords(records []articleRecord) []types.Article {
	out := make([]types.Article, len(records))
	for i, r := range records {
		out[i] = fromRecord(r)
	}
	return out
}
