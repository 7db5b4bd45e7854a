package taxonomy

// Default returns the built-in ad-tech taxonomy used when no taxonomy file is
// configured. Keys line up with the insight template banks in the pipeline
// package.
func Default() *Taxonomy {
	return &Taxonomy{
		Topics: []TopicDef{
			{
				Key: "bidding", Label: "Bidding & Auctions", SignalType: "Market Structure", Weight: 1.0,
				Keywords: []string{
					"bid optimization", "bid shading", "bidding algorithm", "real-time bidding",
					"in-app bidding", "openrtb", "rtb", "auction", "floor price", "bid request", "win rate",
				},
			},
			{
				Key: "skan_att", Label: "SKAN / ATT", SignalType: "Policy", Weight: 1.0,
				Keywords: []string{
					"skadnetwork", "skan", "att ", "app tracking transparency", "idfa", "idfv",
					"conversion value", "postback",
				},
			},
			{
				Key: "privacy_sandbox", Label: "Privacy Sandbox", SignalType: "Policy", Weight: 0.9,
				Keywords: []string{
					"privacy sandbox", "topics api", "protected audience", "attribution api",
					"cookie deprecation", "cookieless",
				},
			},
			{
				Key: "ua_growth", Label: "User Acquisition", SignalType: "Demand", Weight: 0.9,
				Keywords: []string{
					"user acquisition", "app install", "cpi", "roas", "return on ad spend",
					"ltv", "lifetime value", "retargeting", "re-engagement", "campaign optimization",
					"performance marketing",
				},
			},
			{
				Key: "ml_ai", Label: "ML & Predictive", SignalType: "Capability", Weight: 0.9,
				Keywords: []string{
					"machine learning", "ml model", "predictive model", "pcvr", "pltv",
					"ai agent", "agentic", "generative ai", "llm",
				},
			},
			{
				Key: "measurement", Label: "Measurement & MMP", SignalType: "Measurement", Weight: 0.9,
				Keywords: []string{
					"attribution", "incrementality", "appsflyer", "adjust", "singular", "kochava",
					"mmp", "mobile measurement", "media mix model", "multi-touch",
				},
			},
			{
				Key: "mediation", Label: "Mediation & Monetization", SignalType: "Supply", Weight: 0.8,
				Keywords: []string{
					"mediation", "ad monetization", "levelplay", "waterfall", "ecpm",
					"fill rate", "arpdau", "offerwall", "hybrid monetization",
				},
			},
			{
				Key: "ctv", Label: "CTV & Cross-Platform", SignalType: "Supply", Weight: 0.7,
				Keywords: []string{"ctv", "connected tv", "ott", "streaming ads", "cross-platform"},
			},
			{
				Key: "creative", Label: "Creative & Formats", SignalType: "Capability", Weight: 0.7,
				Keywords: []string{
					"playable ad", "rewarded video", "interstitial", "creative optimization",
					"dco", "dynamic creative", "endcard", "ugc ad",
				},
			},
			{
				Key: "fraud", Label: "Ad Fraud", SignalType: "Supply", Weight: 0.7,
				Keywords: []string{
					"ad fraud", "invalid traffic", "ivt", "click fraud", "install fraud", "bot traffic",
				},
			},
			{
				Key: "regulatory", Label: "Privacy & Regulation", SignalType: "Policy", Weight: 0.9,
				Keywords: []string{
					"gdpr", "antitrust", "regulation", "consent", "data protection",
					"ftc", "cma", "dma", "doj", "enforcement",
				},
			},
			{
				Key: "retail_media", Label: "Retail Media", SignalType: "Demand", Weight: 0.6,
				Keywords: []string{"retail media", "commerce media", "sponsored products"},
			},
			{
				Key: "identity", Label: "Identity & Addressability", SignalType: "Capability", Weight: 0.8,
				Keywords: []string{
					"identity graph", "addressability", "id bridging", "alternative id",
					"uid2", "ramp id", "device graph",
				},
			},
			{
				Key: "earnings", Label: "Financials & Earnings", SignalType: "Market Signal", Weight: 0.8,
				Keywords: []string{
					"earnings", "quarterly results", "revenue guidance", "10-k", "10-q", "8-k", "capex",
				},
			},
			{
				Key: "macro", Label: "Macro & Ad Spend", SignalType: "Market Signal", Weight: 0.5,
				Keywords: []string{"ad spend forecast", "macro", "recession", "budget cuts"},
			},
			{
				Key: "ma_funding", Label: "M&A & Funding", SignalType: "Market Structure", Weight: 0.8,
				Keywords: []string{
					"acquisition", "acquires", "acquired", "merger", "ipo", "funding round", "series b", "series c",
				},
			},
			{
				Key: "hiring", Label: "Talent & Hiring", SignalType: "Market Signal", Weight: 0.4,
				Keywords: []string{"joins as", "appoints", "hires", "layoffs", "chief"},
			},
			{
				Key: "mobile_gaming", Label: "Mobile Gaming", SignalType: "Supply", Weight: 0.6,
				Keywords: []string{
					"mobile gaming", "casual game", "hyper-casual", "midcore",
					"app store", "google play", "apple search ads",
				},
			},
		},
		Entities: Entities{
			Companies: []EntityDef{
				{Name: "AppLovin", Type: "competitor", Watchlist: true, Aliases: []string{"applovin", "axon"}},
				{Name: "Unity", Type: "competitor", Watchlist: true, Aliases: []string{"unity ads", "ironsource", "levelplay", "unity "}},
				{Name: "Moloco", Type: "competitor", Watchlist: true, Aliases: []string{"moloco"}},
				{Name: "Liftoff", Type: "competitor", Watchlist: false, Aliases: []string{"liftoff", "vungle"}},
				{Name: "Digital Turbine", Type: "competitor", Watchlist: false, Aliases: []string{"digital turbine"}},
				{Name: "Mintegral", Type: "competitor", Watchlist: false, Aliases: []string{"mintegral"}},
				{Name: "Chartboost", Type: "competitor", Watchlist: false, Aliases: []string{"chartboost"}},
				{Name: "InMobi", Type: "competitor", Watchlist: false, Aliases: []string{"inmobi"}},
				{Name: "Google", Type: "platform", Watchlist: true, Aliases: []string{"google", "admob", "privacy sandbox android"}},
				{Name: "Meta", Type: "platform", Watchlist: true, Aliases: []string{"meta ads", "facebook ads", "advantage+"}},
				{Name: "Apple", Type: "platform", Watchlist: true, Aliases: []string{"apple", "app store", "skadnetwork"}},
				{Name: "AppsFlyer", Type: "mmp", Watchlist: false, Aliases: []string{"appsflyer"}},
				{Name: "Adjust", Type: "mmp", Watchlist: false, Aliases: []string{"adjust "}},
				{Name: "The Trade Desk", Type: "dsp", Watchlist: false, Aliases: []string{"the trade desk", "ttd "}},
			},
		},
	}
}
