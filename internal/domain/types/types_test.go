package types_test

import (
	"math"
	"testing"

	"github.com/okian/pitwall/internal/domain/model"
	types "github.com/okian/pitwall/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func ids(cs []types.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestNewCatalog(t *testing.T) {
	Convey("Given drivers, constructors and forecasts", t, func() {
		constructors := []model.Entity{
			{ID: "MER", Name: "Mercedes", Price: 23, Active: true, Color: "#27F4D2"},
			{ID: "FER", Name: "Ferrari", Price: 27, Active: true, Color: "#E80020"},
			{ID: "ALP", Name: "Alpine", Price: 8, Active: true},
		}
		drivers := []model.Entity{
			{ID: "RUS", Name: "George Russell", Price: 21, Active: true, TeamID: "MER"},
			{ID: "HAM", Name: "Lewis Hamilton", Price: 23, Active: true, TeamID: "FER"},
			{ID: "ANT", Name: "Andrea Kimi Antonelli", Price: 15, Active: true, TeamID: "MER"},
			{ID: "LEC", Name: "Charles Leclerc", Price: 22, Active: true, TeamID: "FER"},
			{ID: "XXX", Name: "Free Agent", Price: 5, Active: false},
			{ID: "GAS", Name: "Pierre Gasly", Price: 12, Active: true, TeamID: "ALP"},
		}
		forecasts := model.Forecasts{
			Drivers:      model.ForecastMap{"HAM": {Points: 20, Delta: 0.2}, "RUS": {Points: math.NaN()}},
			Constructors: model.ForecastMap{"FER": {Points: 45}},
		}

		cat := types.NewCatalog(drivers, constructors, forecasts)

		Convey("Then constructors should be sorted by name", func() {
			So(ids(cat.Constructors), ShouldResemble, []string{"ALP", "FER", "MER"})
		})

		Convey("Then drivers should follow team order, then name, teamless last", func() {
			So(ids(cat.Drivers), ShouldResemble, []string{"GAS", "LEC", "HAM", "ANT", "RUS", "XXX"})
		})

		Convey("Then forecasts should be joined and sanitised", func() {
			So(cat.Drivers[2].Points, ShouldEqual, 20)
			So(cat.Drivers[2].Delta, ShouldEqual, 0.2)
			So(cat.Drivers[4].Points, ShouldEqual, 0)
			So(cat.Constructors[1].Points, ShouldEqual, 45)
			So(cat.Constructors[0].Points, ShouldEqual, 0)
		})

		Convey("Then drivers should take their team's color", func() {
			So(cat.Drivers[1].Color, ShouldEqual, "#E80020")
			So(cat.Drivers[0].Color, ShouldEqual, types.DefaultColor)
			So(cat.Drivers[5].Color, ShouldEqual, types.DefaultColor)
			So(cat.Constructors[2].Color, ShouldEqual, "#27F4D2")
		})

		Convey("Then inactive entities should be listed with their category", func() {
			So(cat.Drivers[5].Active, ShouldBeFalse)
			So(cat.Drivers[5].Category, ShouldEqual, model.CategoryDriver)
			So(cat.Constructors[0].Category, ShouldEqual, model.CategoryConstructor)
		})
	})

	Convey("Given an empty catalog", t, func() {
		cat := types.NewCatalog(nil, nil, model.Forecasts{})

		Convey("Then both lists should be empty but not nil", func() {
			So(cat.Drivers, ShouldNotBeNil)
			So(cat.Drivers, ShouldBeEmpty)
			So(cat.Constructors, ShouldNotBeNil)
		})
	})
}
