package energinet

import (
	"context"
	"strconv"
	"time"
)

// Resolution selects the granularity of the renewables forecasts.
type Resolution string

const (
	ResolutionHour        Resolution = "1H"
	ResolutionFiveMinutes Resolution = "5min"
)

// SpotPrice is one hour of day-ahead prices from the Elspotprices dataset.
type SpotPrice struct {
	HourUTC      time.Time `json:"HourUTC"`
	PriceArea    string    `json:"PriceArea"`
	SpotPriceDKK float64   `json:"SpotPriceDKK"`
	SpotPriceEUR float64   `json:"SpotPriceEUR"`
}

// CO2Emission is one reading from the CO2Emis or CO2EmisProg dataset,
// in g CO2 per kWh.
type CO2Emission struct {
	Minutes5UTC time.Time `json:"Minutes5UTC"`
	PriceArea   string    `json:"PriceArea"`
	Emission    float64   `json:"CO2Emission"`
}

// SpotPrices downloads power spot prices for Denmark and its neighbors.
// An empty priceArea ("DK1", "DK2", "DE", "NO2", "SE3", "SE4") returns
// every area.
func (c *Client) SpotPrices(ctx context.Context, start, end time.Time, priceArea string) ([]SpotPrice, error) {
	table, err := c.Fetch(ctx, Query{
		Dataset: "Elspotprices",
		Start:   start,
		End:     end,
		Filters: areaFilter(priceArea),
	})
	if err != nil {
		return nil, err
	}

	prices, err := Decode[SpotPrice](table)
	if err != nil {
		return nil, err
	}
	restoreArea(priceArea, prices, func(p *SpotPrice) *string { return &p.PriceArea })

	return prices, nil
}

// CO2Emissions returns realised grid emissions, or the prognosis when
// forecast is true.
func (c *Client) CO2Emissions(ctx context.Context, start, end time.Time, priceArea string, forecast bool) ([]CO2Emission, error) {
	dataset := "CO2Emis"
	if forecast {
		dataset = "CO2EmisProg"
	}

	table, err := c.Fetch(ctx, Query{
		Dataset: dataset,
		Start:   start,
		End:     end,
		Filters: areaFilter(priceArea),
	})
	if err != nil {
		return nil, err
	}

	emissions, err := Decode[CO2Emission](table)
	if err != nil {
		return nil, err
	}
	restoreArea(priceArea, emissions, func(e *CO2Emission) *string { return &e.PriceArea })

	return emissions, nil
}

// ProductionPerMunicipality downloads hourly production per Danish
// municipality. A zero municipalityNo returns all municipalities.
func (c *Client) ProductionPerMunicipality(ctx context.Context, start, end time.Time, municipalityNo int, columns ...string) (*Table, error) {
	var filters Filters
	if municipalityNo > 0 {
		filters = Filters{"MunicipalityNo": {strconv.Itoa(municipalityNo)}}
	}
	return c.Fetch(ctx, Query{
		Dataset: "ProductionMunicipalityHour",
		Start:   start,
		End:     end,
		Filters: filters,
		Columns: columns,
	})
}

// ProductionConsumption returns production and consumption figures, either
// the validated settlement data or the temporary unofficial balance data.
// The two datasets do not share column names.
func (c *Client) ProductionConsumption(ctx context.Context, start, end time.Time, priceArea string, validated bool, columns ...string) (*Table, error) {
	dataset := "ElectricityBalanceNonv"
	if validated {
		dataset = "ProductionConsumptionSettlement"
	}
	return c.Fetch(ctx, Query{
		Dataset: dataset,
		Start:   start,
		End:     end,
		Filters: areaFilter(priceArea),
		Columns: columns,
	})
}

// FcrDK1 downloads frequency containment reserve data for western Denmark.
func (c *Client) FcrDK1(ctx context.Context, start, end time.Time, columns ...string) (*Table, error) {
	return c.Fetch(ctx, Query{
		Dataset: "FcrDK1",
		Start:   start,
		End:     end,
		Columns: columns,
	})
}

// FcrDK1Legacy serves pre-2021 FCR figures, published as part of the
// balance-power dataset.
func (c *Client) FcrDK1Legacy(ctx context.Context, start, end time.Time, columns ...string) (*Table, error) {
	return c.Fetch(ctx, Query{
		Dataset: "RegulatingBalancePowerdata",
		Start:   start,
		End:     end,
		Columns: columns,
	})
}

// Balancing downloads regulating and balance power data.
func (c *Client) Balancing(ctx context.Context, start, end time.Time, priceArea string, columns ...string) (*Table, error) {
	return c.Fetch(ctx, Query{
		Dataset: "RegulatingBalancePowerdata",
		Start:   start,
		End:     end,
		Filters: areaFilter(priceArea),
		Columns: columns,
	})
}

// ConsumptionPerIndustry returns electricity consumption per DK36/DK19
// industry code from the CVR register. When both codes are given only the
// DK36 code is used.
func (c *Client) ConsumptionPerIndustry(ctx context.Context, start, end time.Time, dk36Code, dk19Code string) (*Table, error) {
	if dk36Code != "" && dk19Code != "" {
		c.logger.Warn("both industry codes given, filtering on the DK36 code only")
		dk19Code = ""
	}

	filters := Filters{}
	if dk36Code != "" {
		filters["DK36Code"] = []string{dk36Code}
	}
	if dk19Code != "" {
		filters["DK19Code"] = []string{dk19Code}
	}

	return c.Fetch(ctx, Query{
		Dataset: "ConsumptionDK3619codehour",
		Start:   start,
		End:     end,
		Filters: filters,
	})
}

// CountertradeVolumes returns intraday countertrading on the DK-DE border.
func (c *Client) CountertradeVolumes(ctx context.Context, start, end time.Time) (*Table, error) {
	return c.Fetch(ctx, Query{
		Dataset: "CountertradeIntraday",
		Start:   start,
		End:     end,
	})
}

// RealtimeProductionExchange returns production and exchanges at 5 minute
// granularity.
func (c *Client) RealtimeProductionExchange(ctx context.Context, start, end time.Time, priceArea string, columns ...string) (*Table, error) {
	return c.Fetch(ctx, Query{
		Dataset: "ElectricityProdex5MinRealtime",
		Start:   start,
		End:     end,
		Filters: areaFilter(priceArea),
		Columns: columns,
	})
}

// ExchangeFlows returns scheduled exchange flows to neighboring areas.
func (c *Client) ExchangeFlows(ctx context.Context, start, end time.Time, priceArea string, columns ...string) (*Table, error) {
	return c.Fetch(ctx, Query{
		Dataset: "ForeignExchange",
		Start:   start,
		End:     end,
		Filters: areaFilter(priceArea),
		Columns: columns,
	})
}

// RESForecast returns renewables forecasts, hourly or per 5 minutes. An
// empty tech returns all forecast types.
func (c *Client) RESForecast(ctx context.Context, start, end time.Time, priceArea, tech string, resolution Resolution, columns ...string) (*Table, error) {
	dataset := "Forecasts_Hour"
	if resolution == ResolutionFiveMinutes {
		dataset = "Forecasts_5Min"
	}

	filters := areaFilter(priceArea)
	if tech != "" {
		if filters == nil {
			filters = Filters{}
		}
		filters["ForecastType"] = []string{tech}
	}

	return c.Fetch(ctx, Query{
		Dataset: dataset,
		Start:   start,
		End:     end,
		Filters: filters,
		Columns: columns,
	})
}

// PowerSystemNow returns live power system readings.
func (c *Client) PowerSystemNow(ctx context.Context, start, end time.Time, columns ...string) (*Table, error) {
	return c.Fetch(ctx, Query{
		Dataset: "PowerSystemRightNow",
		Start:   start,
		End:     end,
		Columns: columns,
	})
}

func areaFilter(priceArea string) Filters {
	if priceArea == "" {
		return nil
	}
	return Filters{"PriceArea": {priceArea}}
}

// restoreArea fills the filtered-away PriceArea column back into decoded
// rows, since Fetch drops constant filter columns.
func restoreArea[T any](priceArea string, rows []T, field func(*T) *string) {
	if priceArea == "" {
		return
	}
	for i := range rows {
		*field(&rows[i]) = priceArea
	}
}
