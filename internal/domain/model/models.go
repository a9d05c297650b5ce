package model

// GenerateParams 包含生成日报的所有参数
type GenerateParams struct {
	Date            string         // 发布日期（YYYY-MM-DD）
	Count           int            // 每个信息源抓取的文章数量
	Sources         []string       // 信息源列表（同时决定选取时的优先顺序）
	OpmlFile        string         // 额外信息源的OPML文件路径（可选）
	Limit           int            // 最终文章数量上限
	PerSource       int            // 首轮每个信息源的配额
	WithImages      bool           // 是否插入配图
	MaxImages       int            // 配图数量上限
	Dedupe          bool           // 是否与历史日报去重
	DedupeDays      int            // 去重回溯的天数
	PostsDir        string         // 日报输出目录
	CacheFile       string         // 翻译缓存文件路径
	AnthropicConfig BackendConfig  // Anthropic兼容后端配置
	OpenAIConfig    BackendConfig  // OpenAI后端配置
	RssConfig       RssConfig      // RSS抓取配置
	DatabaseConfig  DatabaseConfig // 归档数据库配置
	ImageConfig     ImageConfig    // 配图处理配置
}

// BackendConfig 包含一个翻译后端的配置信息
type BackendConfig struct {
	APIKey    string // API密钥
	BaseURL   string // API基础地址
	Model     string // 模型名称
	MaxTokens int    // 最大令牌数
	MaxCalls  int    // 单次运行的最大调用次数（0表示不限制）
	Timeout   int    // 单次调用超时（秒）
}

// RssConfig 包含RSS抓取的配置信息
type RssConfig struct {
	Timeout          int // 抓取超时时间（秒）
	Concurrency      int // 并发抓取数量
	MaxRetries       int // 最大重试次数
	RetryBackoffBase int // 重试退避基数（秒）
	EnrichTimeout    int // 描述补全单页超时（秒）
}

// DatabaseConfig 包含归档数据库的配置信息
type DatabaseConfig struct {
	Enabled  bool   // 是否启用归档
	FilePath string // 数据库文件路径
}

// ImageConfig 包含配图处理的配置信息
type ImageConfig struct {
	PerPageTimeout int // 单页抓取超时（秒）
	TotalTimeout   int // 全部配图的总时间预算（秒）
}

// Article 表示一条候选新闻
type Article struct {
	Title        string // 原文标题
	Link         string // 原文链接，作为去重与缓存的唯一标识
	Description  string // 简短描述（可能为空）
	CommentsLink string // 讨论区链接（可能为空）
	PubDate      string // 发布时间（原样透传）
	Source       string // 信息源标识（如 hackernews）
	SourceName   string // 信息源显示名称（如 Hacker News）

	// 翻译结果，在一次运行内填充后不再修改
	TranslatedTitle   string
	TranslatedSummary string
}

// CacheKey 返回文章在翻译缓存中的键：优先链接，其次标题。
// 两者都为空时返回空字符串，表示该文章应被跳过。
func (a Article) CacheKey() string {
	if a.Link != "" {
		return a.Link
	}
	return a.Title
}

// TranslationEntry 表示翻译缓存中的一条记录
type TranslationEntry struct {
	Title   string `json:"zh_title"`
	Summary string `json:"zh_summary"`
}

// ArchivedArticle 表示归档数据库中的一条已发布记录
type ArchivedArticle struct {
	Title           string // 原文标题
	TranslatedTitle string // 翻译后标题
	Summary         string // 翻译后摘要
	Source          string // 信息源显示名称
	Category        string // 分类
	Link            string // 原文链接
	PublishDate     string // 日报日期
}
