package model_test

import (
	"errors"
	"testing"

	"github.com/okian/pitwall/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRoster_Validate(t *testing.T) {
	Convey("Given a roster", t, func() {
		r := model.Roster{
			DriverIDs:      []string{"VER", "NOR", "PIA", "RUS", "GAS"},
			ConstructorIDs: []string{"MCL", "MER"},
		}

		Convey("When it has the standard shape", func() {
			So(r.Validate(5, 2), ShouldBeNil)
		})

		Convey("When a driver is missing", func() {
			r.DriverIDs = r.DriverIDs[:4]
			err := r.Validate(5, 2)
			So(errors.Is(err, model.ErrInvalidRoster), ShouldBeTrue)
		})

		Convey("When a constructor is duplicated", func() {
			r.ConstructorIDs = []string{"MCL", "MCL"}
			err := r.Validate(5, 2)
			So(errors.Is(err, model.ErrInvalidRoster), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "duplicate constructor")
		})

		Convey("When an id is empty", func() {
			r.DriverIDs[2] = ""
			So(errors.Is(r.Validate(5, 2), model.ErrInvalidRoster), ShouldBeTrue)
		})

		Convey("When slot counts are configured differently", func() {
			So(r.Validate(4, 2), ShouldNotBeNil)
			So(model.Roster{DriverIDs: []string{"A"}, ConstructorIDs: []string{"X"}}.Validate(1, 1), ShouldBeNil)
		})
	})
}

func TestRoster_IDs(t *testing.T) {
	Convey("Given a roster", t, func() {
		r := model.Roster{DriverIDs: []string{"A", "B"}, ConstructorIDs: []string{"X"}}

		Convey("Then IDs lists drivers before constructors", func() {
			So(r.IDs(), ShouldResemble, []string{"A", "B", "X"})
		})

		Convey("And appending to the result leaves the roster untouched", func() {
			ids := r.IDs()
			ids[0] = "Z"
			So(r.DriverIDs[0], ShouldEqual, "A")
		})
	})
}

func TestSeasonProgress_Fraction(t *testing.T) {
	Convey("Given season progress values", t, func() {
		So(model.SeasonProgress{RacesCompleted: 0, TotalRaces: 24}.Fraction(), ShouldEqual, 0)
		So(model.SeasonProgress{RacesCompleted: 12, TotalRaces: 24}.Fraction(), ShouldEqual, 0.5)
		So(model.SeasonProgress{RacesCompleted: 24, TotalRaces: 24}.Fraction(), ShouldEqual, 1)
		So(model.SeasonProgress{RacesCompleted: 30, TotalRaces: 24}.Fraction(), ShouldEqual, 1)
		So(model.SeasonProgress{RacesCompleted: -2, TotalRaces: 24}.Fraction(), ShouldEqual, 0)
		So(model.SeasonProgress{RacesCompleted: 3, TotalRaces: 0}.Fraction(), ShouldEqual, 0)
	})
}

func TestForecasts(t *testing.T) {
	Convey("Given forecast tables", t, func() {
		f := model.Forecasts{
			Drivers:      model.ForecastMap{"NOR": {Points: 38, Delta: 0.12}},
			Constructors: model.ForecastMap{"MCL": {Points: 91.2, Delta: 0.05}},
		}

		So(f.For(model.CategoryDriver).Get("NOR").Points, ShouldEqual, 38)
		So(f.For(model.CategoryConstructor).Get("MCL").Delta, ShouldEqual, 0.05)
		So(f.For(model.CategoryDriver).Get("MISSING"), ShouldResemble, model.Forecast{})

		var empty model.ForecastMap
		So(empty.Get("NOR"), ShouldResemble, model.Forecast{})
	})
}
