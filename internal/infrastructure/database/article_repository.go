package database

import (
	"database/sql"
	"fmt"

	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

// ArticleRepository 定义已发布文章归档的存储库接口
type ArticleRepository interface {
	// SaveArticle 归档一条已发布文章
	SaveArticle(article model.ArchivedArticle) error
	// ArticleExists 检查文章是否已归档
	ArticleExists(link string) (bool, error)
	// GetArticleByLink 根据链接获取归档文章
	GetArticleByLink(link string) (*model.ArchivedArticle, error)
	// GetLinksByDate 获取某期日报归档的全部链接
	GetLinksByDate(publishDate string) ([]string, error)
}

// SQLiteArticleRepository 实现ArticleRepository接口的SQLite存储库
type SQLiteArticleRepository struct {
	db Database
}

// NewSQLiteArticleRepository 创建一个新的SQLite文章归档存储库
func NewSQLiteArticleRepository(db Database) ArticleRepository {
	return &SQLiteArticleRepository{
		db: db,
	}
}

// SaveArticle 归档已发布文章，链接冲突时更新翻译结果与日期
func (r *SQLiteArticleRepository) SaveArticle(article model.ArchivedArticle) error {
	logger.Debug("归档文章", "title", article.Title, "link", article.Link)

	query := `
	INSERT INTO published_articles (title, translated_title, summary, source, category, link, publish_date)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(link) DO UPDATE SET
		translated_title = excluded.translated_title,
		summary = excluded.summary,
		publish_date = excluded.publish_date
	`

	_, err := r.db.Exec(query, article.Title, article.TranslatedTitle, article.Summary,
		article.Source, article.Category, article.Link, article.PublishDate)
	if err != nil {
		logger.Error("归档文章失败", "error", err)
		return fmt.Errorf("归档文章失败: %w", err)
	}

	return nil
}

// ArticleExists 检查文章是否已归档
func (r *SQLiteArticleRepository) ArticleExists(link string) (bool, error) {
	query := "SELECT COUNT(*) FROM published_articles WHERE link = ?"
	var count int
	err := r.db.QueryRow(query, link).Scan(&count)
	if err != nil {
		logger.Error("查询归档文章失败", "error", err)
		return false, fmt.Errorf("查询归档文章失败: %w", err)
	}

	return count > 0, nil
}

// GetArticleByLink 根据链接获取归档文章，不存在时返回nil
func (r *SQLiteArticleRepository) GetArticleByLink(link string) (*model.ArchivedArticle, error) {
	query := `SELECT title, translated_title, summary, source, category, link, publish_date
	FROM published_articles WHERE link = ?`
	row := r.db.QueryRow(query, link)

	var article model.ArchivedArticle
	err := row.Scan(&article.Title, &article.TranslatedTitle, &article.Summary,
		&article.Source, &article.Category, &article.Link, &article.PublishDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("获取归档文章失败", "error", err)
		return nil, fmt.Errorf("获取归档文章失败: %w", err)
	}

	return &article, nil
}

// GetLinksByDate 获取某期日报归档的全部链接
func (r *SQLiteArticleRepository) GetLinksByDate(publishDate string) ([]string, error) {
	rows, err := r.db.Query("SELECT link FROM published_articles WHERE publish_date = ?", publishDate)
	if err != nil {
		return nil, fmt.Errorf("查询归档链接失败: %w", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("读取归档链接失败: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
