package catalog

// Default returns the compiled-in catalog covering the GA4 metrics,
// dimensions, and dataset bundles the dashboard queries out of the box.
func Default() *Catalog {
	c, err := build(defaultFile())
	if err != nil {
		// The default catalog is static; a build failure is a programming
		// error.
		panic(err)
	}
	return c
}

func defaultFile() file {
	return file{
		Metrics: []metricEntry{
			{Name: "sessions", Aggregation: "additive"},
			{Name: "totalUsers", Aggregation: "additive"},
			{Name: "newUsers", Aggregation: "additive"},
			{Name: "screenPageViews", Aggregation: "additive"},
			{Name: "eventCount", Aggregation: "additive"},
			{Name: "conversions", Aggregation: "additive"},
			{Name: "engagedSessions", Aggregation: "additive"},
			{Name: "totalRevenue", Aggregation: "additive"},
			{Name: "userEngagementDuration", Aggregation: "additive"},
			{Name: "bounceRate", Aggregation: "pre-aggregated", WeightMetric: "sessions"},
			{Name: "engagementRate", Aggregation: "pre-aggregated", WeightMetric: "sessions"},
			{Name: "averageSessionDuration", Aggregation: "pre-aggregated", WeightMetric: "sessions"},
		},
		Dimensions: []string{
			"date",
			"hour",
			"country",
			"region",
			"city",
			"deviceCategory",
			"operatingSystem",
			"browser",
			"sessionSource",
			"sessionMedium",
			"sessionSourceMedium",
			"sessionCampaignName",
			"sessionDefaultChannelGrouping",
			"pagePath",
			"pageTitle",
			"landingPage",
			"eventName",
			"language",
		},
		Datasets: []Dataset{
			{
				Name:       "temporal",
				Dimensions: []string{"date", "country", "pagePath", "sessionDefaultChannelGrouping"},
				Metrics: []string{
					"sessions", "totalUsers", "newUsers", "screenPageViews",
					"bounceRate", "averageSessionDuration", "engagementRate",
					"conversions", "totalRevenue", "engagedSessions",
				},
			},
			{
				Name:       "traffic",
				Dimensions: []string{"sessionSource", "sessionMedium", "sessionDefaultChannelGrouping", "country"},
				Metrics: []string{
					"sessions", "totalUsers", "newUsers", "bounceRate",
					"averageSessionDuration", "conversions", "engagedSessions",
				},
			},
			{
				Name:       "content",
				Dimensions: []string{"date", "pagePath", "pageTitle", "landingPage"},
				Metrics: []string{
					"screenPageViews", "sessions", "bounceRate",
					"averageSessionDuration", "engagedSessions", "eventCount",
				},
			},
			{
				Name:       "devices",
				Dimensions: []string{"deviceCategory", "operatingSystem", "browser"},
				Metrics:    []string{"sessions", "totalUsers", "screenPageViews", "bounceRate", "engagedSessions"},
			},
			{
				Name:       "events",
				Dimensions: []string{"eventName"},
				Metrics:    []string{"eventCount", "totalUsers", "sessions", "engagedSessions"},
			},
			{
				Name:       "campaigns",
				Dimensions: []string{"sessionCampaignName", "sessionSource", "sessionMedium"},
				Metrics:    []string{"sessions", "totalUsers", "conversions", "engagedSessions", "totalRevenue"},
			},
			{
				Name:       "funnel",
				Dimensions: []string{"date", "eventName"},
				Metrics:    []string{"sessions", "totalUsers", "conversions", "eventCount", "screenPageViews"},
			},
		},
		Funnels: []funnelEntry{
			{
				Name: "acquisition",
				Stages: []stageEntry{
					{Name: "visit", Metric: "sessions"},
					{Name: "lead", Metric: "conversions"},
					{Name: "meeting", Metric: "eventCount"},
				},
			},
		},
	}
}
