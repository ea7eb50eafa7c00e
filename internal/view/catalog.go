package view

import "golang.org/x/text/language"

// Fact is one trivia entry
type Fact struct {
	Title string `mapstructure:"title"`
	Body  string `mapstructure:"body"`
}

// Action is a call-to-action button
type Action struct {
	Label string `mapstructure:"label"`
	URL   string `mapstructure:"url"`
	Style string `mapstructure:"style" validate:"omitempty,oneof=primary danger"`
}

// catalog holds the copy of one language
type catalog struct {
	Title          string
	IPLabel        string
	Pending        string
	Failure        string
	ManifestoHead  string
	ManifestoBody  string
	StatsHeading   string
	AnimalsBadge   string
	AnimalsCaption string
	TreesBadge     string
	TreesCaption   string
	PlasticBadge   string
	PlasticCaption string
	PlasticUnit    string
	TriviaHeading  string
	Trivia         []Fact
	Actions        []Action
}

var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]catalog{
	language.English: {
		Title:          "🌍 Real Address Finder",
		IPLabel:        "Your current IP address is:",
		Pending:        "loading...",
		Failure:        "Failed to get IP",
		ManifestoHead:  "🐾 When the buying stops, the killing can too. Protect wildlife, protect our planet",
		ManifestoBody:  "Every illegal trade pushes endangered species closer to extinction. Refusing ivory, rhino horn and pangolin scales, and supporting sustainable alternatives, is our promise to nature.",
		StatsHeading:   "📊 Global conservation progress (sample data)",
		AnimalsBadge:   "Recovered",
		AnimalsCaption: "wild animals successfully protected",
		TreesBadge:     "Planted",
		TreesCaption:   "trees in total (millions)",
		PlasticBadge:   "Ongoing",
		PlasticCaption: "of ocean plastic removed",
		PlasticUnit:    "t",
		TriviaHeading:  "💡 Did you know?",
		Trivia: []Fact{
			{"Elephants never forget", "they remember water sources for years, helping the whole herd survive."},
			{"Bees feed the world", "about 75% of crops depend on pollinators such as bees."},
			{"Coral reefs", "cover less than 1% of the ocean yet host 25% of marine life."},
			{"Forests as carbon sinks", "forests absorb about 2 billion tonnes of CO2 a year, roughly 1/6 of global emissions."},
		},
		Actions: []Action{
			{Label: "🌿 Join the green action", Style: "primary"},
			{Label: "🐾 Support wildlife protection", Style: "danger"},
		},
	},
	language.Chinese: {
		Title:          "🌍 真实地址生成器",
		IPLabel:        "您的当前 IP 地址为：",
		Pending:        "loading...",
		Failure:        "获取IP失败",
		ManifestoHead:  "🐾 没有买卖就没有杀戮 —— 保护野生动物，守护地球家园",
		ManifestoBody:  "每一次非法交易都在将濒危物种推向灭绝边缘。拒绝象牙、犀角、穿山甲鳞片等制品，支持可持续替代品，是我们对自然的承诺。",
		StatsHeading:   "📊 全球环保进展（模拟数据）",
		AnimalsBadge:   "已恢复",
		AnimalsCaption: "野生动物个体被成功保护",
		TreesBadge:     "已种植",
		TreesCaption:   "树木总量（百万棵）",
		PlasticBadge:   "待解决",
		PlasticCaption: "海洋塑料垃圾已被清除",
		PlasticUnit:    "吨",
		TriviaHeading:  "💡 你知道吗？",
		Trivia: []Fact{
			{"大象记忆超群", "它们能记住水源位置长达数年之久，帮助整个族群生存。"},
			{"蜜蜂授粉价值", "全球约75%的农作物依赖蜜蜂等昆虫授粉，它们是粮食安全的守护者。"},
			{"珊瑚礁生态", "仅占海洋面积不到1%的珊瑚礁，却是25%海洋生物的栖息地。"},
			{"森林碳汇作用", "全球森林每年吸收约20亿吨二氧化碳，相当于全球排放量的1/6。"},
		},
		Actions: []Action{
			{Label: "🌿 参与环保行动", Style: "primary"},
			{Label: "🐾 支持野生动物保护", Style: "danger"},
		},
	},
}

// matchLocale picks the supported language closest to locale
func matchLocale(locale string) (language.Tag, catalog) {
	tag, _ := language.MatchStrings(matcher, locale)
	base, _ := tag.Base()
	for _, s := range supported {
		if b, _ := s.Base(); b == base {
			return s, catalogs[s]
		}
	}
	return language.English, catalogs[language.English]
}
