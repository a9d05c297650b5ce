package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wolfitem/tech-daily/internal/application/service"
	"github.com/wolfitem/tech-daily/internal/domain/model"
	"github.com/wolfitem/tech-daily/internal/infrastructure/logger"
)

var (
	genDate      string
	genCount     int
	genSources   []string
	genOpmlFile  string
	genLimit     int
	genPerSource int
	genNoImages  bool
	genNoDedupe  bool
	genMaxImages int
	genOutputDir string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "抓取信息源并生成当日科技新闻日报",
	Long: `从指定的信息源抓取候选文章，与最近几期日报去重后跨信息源均衡选取，
调用翻译后端生成中文标题与摘要（命中持久缓存时不重复翻译），
最终在输出目录生成按分类整理的日报文档。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appService := service.NewPostService()

		postsDir := genOutputDir
		if postsDir == "" {
			postsDir = viper.GetString("posts.dir")
		}

		params := model.GenerateParams{
			Date:       genDate,
			Count:      genCount,
			Sources:    genSources,
			OpmlFile:   genOpmlFile,
			Limit:      genLimit,
			PerSource:  genPerSource,
			WithImages: !genNoImages,
			MaxImages:  genMaxImages,
			Dedupe:     !genNoDedupe,
			DedupeDays: viper.GetInt("posts.dedupe_days"),
			PostsDir:   postsDir,
			CacheFile:  viper.GetString("cache.file_path"),
			AnthropicConfig: model.BackendConfig{
				APIKey:    viper.GetString("anthropic.api_key"),
				BaseURL:   viper.GetString("anthropic.base_url"),
				Model:     viper.GetString("anthropic.model"),
				MaxTokens: viper.GetInt("anthropic.max_tokens"),
				MaxCalls:  viper.GetInt("anthropic.max_calls"),
				Timeout:   viper.GetInt("anthropic.timeout"),
			},
			OpenAIConfig: model.BackendConfig{
				APIKey:    viper.GetString("openai.api_key"),
				BaseURL:   viper.GetString("openai.base_url"),
				Model:     viper.GetString("openai.model"),
				MaxTokens: viper.GetInt("openai.max_tokens"),
				MaxCalls:  viper.GetInt("openai.max_calls"),
				Timeout:   viper.GetInt("openai.timeout"),
			},
			RssConfig: model.RssConfig{
				Timeout:          viper.GetInt("rss.timeout"),
				Concurrency:      viper.GetInt("rss.concurrency"),
				MaxRetries:       viper.GetInt("rss.max_retries"),
				RetryBackoffBase: viper.GetInt("rss.retry_backoff_base"),
				EnrichTimeout:    viper.GetInt("rss.enrich_timeout"),
			},
			DatabaseConfig: model.DatabaseConfig{
				Enabled:  viper.GetBool("database.enabled"),
				FilePath: viper.GetString("database.file_path"),
			},
			ImageConfig: model.ImageConfig{
				PerPageTimeout: viper.GetInt("images.per_page_timeout"),
				TotalTimeout:   viper.GetInt("images.total_timeout"),
			},
		}

		postPath, err := appService.GeneratePost(params)
		if err != nil {
			logger.Error("生成日报失败", "error", err)
			return fmt.Errorf("生成日报失败: %w", err)
		}

		fmt.Printf("日报已保存到: %s\n", postPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	// 本地标志
	generateCmd.Flags().StringVar(&genDate, "date", "", "日报日期（YYYY-MM-DD，默认今天）")
	generateCmd.Flags().IntVar(&genCount, "count", 15, "每个信息源抓取的文章数量")
	generateCmd.Flags().StringSliceVar(&genSources, "sources", nil, "信息源列表（如 hackernews,lobsters,devto），顺序即选取优先级")
	generateCmd.Flags().StringVar(&genOpmlFile, "opml", "", "额外信息源的OPML文件路径")
	generateCmd.Flags().IntVar(&genLimit, "limit", 10, "日报最终文章数量上限")
	generateCmd.Flags().IntVar(&genPerSource, "per-source", 2, "首轮每个信息源的配额")
	generateCmd.Flags().BoolVar(&genNoImages, "no-images", false, "不插入配图（加快生成速度）")
	generateCmd.Flags().BoolVar(&genNoDedupe, "no-dedupe", false, "不与历史日报去重")
	generateCmd.Flags().IntVar(&genMaxImages, "max-images", 15, "配图数量上限")
	generateCmd.Flags().StringVarP(&genOutputDir, "output-dir", "o", "", "日报输出目录（默认读取配置 posts.dir）")
}
