package widgets

import (
	"github.com/Sumatoshi-tech/salesboard/pkg/chart"
	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
)

// Widget ids.
const (
	CategoryID          = "categoryChart"
	SeasonID            = "seasonChart"
	LocationID          = "locationChart"
	SalesTrendID        = "salesTrendChart"
	RegionID            = "regionChart"
	StoreSizeID         = "storeSizeChart"
	TopProductsID       = "topSellingProductsChart"
	CrossSellID         = "crossSellUpsellChart"
	CLVID               = "clvDistributionChart"
	DiscountImpactID    = "discountImpactChart"
	AgeID               = "ageChart"
	GenderID            = "genderChart"
	AgeBinsID           = "ageBinsChart"
	PeakHoursID         = "peakHoursChart"
	PromoCodeID         = "promoCodeChart"
	DiscountHistogramID = "discountHistogramChart"
	RFMSegmentsID       = "rfmSegmentsChart"
	VisitFrequencyID    = "visitVsPurchaseFrequencyChart"
	SalesByDayID        = "salesByDayChart"
	PredictedSalesID    = "predictedSalesChart"
)

// Metric keys.
const (
	KeySalesByCategory   = "sales_by_category"
	KeySalesBySeason     = "sales_by_season"
	KeySalesByLocation   = "sales_by_location"
	KeySalesByMonth      = "sales_by_month"
	KeySalesByYear       = "sales_by_year"
	KeySalesByRegion     = "sales_by_region"
	KeySalesByStoreSize  = "sales_by_store_size"
	KeyTopSelling        = "top_selling_products"
	KeyCrossSell         = "cross_sell_upsell_opportunities"
	KeyCLV               = "clv_distribution"
	KeyDiscountImpact    = "discount_impact"
	KeyAgeDistribution   = "age_distribution"
	KeyGender            = "gender_distribution"
	KeyAgeBins           = "sales_by_age_bins"
	KeyPeakHours         = "peak_purchase_hours"
	KeyPromoCode         = "promo_code_usage"
	KeyDiscountHistogram = "discount_histogram"
	KeyRFMSegments       = "rfm_segments"
	KeyVisitFrequency    = "visit_vs_purchase_frequency"
	KeySalesByDay        = "sales_by_day"
	KeySalesByStore      = "sales_by_store"
)

// Table returns the chart widgets in dispatch order.
func Table() []Widget {
	return []Widget{
		{CategoryID, KeySalesByCategory, chart.KindBar,
			categorical(KeySalesByCategory, "Sales by Category", payload.OrderAscending, barStyle),
			currencyBars("y")},
		{SeasonID, KeySalesBySeason, chart.KindBar,
			categorical(KeySalesBySeason, "Sales by Season", payload.OrderDescending, barStyle),
			currencyBars("y")},
		{LocationID, KeySalesByLocation, chart.KindBar,
			categorical(KeySalesByLocation, "Sales by Location", payload.OrderInsertion, barStyle),
			horizontal(currencyBars("x"))},
		{SalesTrendID, KeySalesByMonth, chart.KindLine, salesTrend, trendOptions},
		{RegionID, KeySalesByRegion, chart.KindPie,
			categorical(KeySalesByRegion, "", payload.OrderInsertion, sliceStyle),
			pieOptions(chart.FormatCurrencyShort)},
		{StoreSizeID, KeySalesByStoreSize, chart.KindBar,
			categorical(KeySalesByStoreSize, "Sales by Store Size", payload.OrderInsertion, barStyle),
			horizontal(currencyBars("x"))},
		{TopProductsID, KeyTopSelling, chart.KindBar,
			categorical(KeyTopSelling, "Top Selling Products", payload.OrderDescending, barStyle),
			plainBars},
		{CrossSellID, KeyCrossSell, chart.KindBar, crossSell, horizontal(currencyBars("x"))},
		{CLVID, KeyCLV, chart.KindBar,
			categorical(KeyCLV, "Customer Lifetime Value", payload.OrderDescending, barStyle),
			plainBars},
		{DiscountImpactID, KeyDiscountImpact, chart.KindBar, discountImpact, discountImpactOptions},
		{AgeID, KeyAgeDistribution, chart.KindBar,
			categorical(KeyAgeDistribution, "Age Distribution", payload.OrderInsertion, barStyle),
			plainBars},
		{GenderID, KeyGender, chart.KindPie,
			categorical(KeyGender, "", payload.OrderInsertion, sliceStyle),
			pieOptions(chart.FormatCount)},
		{AgeBinsID, KeyAgeBins, chart.KindPie,
			categorical(KeyAgeBins, "", payload.OrderInsertion, sliceStyle),
			pieOptions(chart.FormatCurrencyShort)},
		{PeakHoursID, KeyPeakHours, chart.KindLine, peakHours, peakHoursOptions},
		{PromoCodeID, KeyPromoCode, chart.KindDoughnut,
			categorical(KeyPromoCode, "", payload.OrderInsertion, sliceStyle),
			pieOptions(chart.FormatCount)},
		{DiscountHistogramID, KeyDiscountHistogram, chart.KindBar,
			categorical(KeyDiscountHistogram, "Number of Transactions", payload.OrderInsertion, barStyle),
			titledX(plainBars, "Discount Range")},
		{RFMSegmentsID, KeyRFMSegments, chart.KindBar,
			categorical(KeyRFMSegments, "Number of Customers", payload.OrderDescending, barStyle),
			plainBars},
		{VisitFrequencyID, KeyVisitFrequency, chart.KindScatter, visitFrequency, visitFrequencyOptions},
		{SalesByDayID, KeySalesByDay, chart.KindBar, salesByDay, salesByDayOptions},
	}
}
