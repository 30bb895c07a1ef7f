package history

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Record{TrackIndex: 5}.Clamp(3).TrackIndex, ShouldEqual, 2)
		So(Record{TrackIndex: -1}.Clamp(3).TrackIndex, ShouldEqual, 0)
		So(Record{TrackIndex: 4}.Clamp(0).TrackIndex, ShouldEqual, 0)
		So(Record{Position: math.NaN()}.Clamp(1).Position, ShouldEqual, 0)
		So(Record{Position: math.Inf(1)}.Clamp(1).Position, ShouldEqual, 0)
		So(Record{Position: 12.5}.Clamp(1).Position, ShouldEqual, 12.5)
	})
}

func TestNormalizeFinished(t *testing.T) {
	Convey("NormalizeFinished sorts, de-duplicates and drops empties", t, func() {
		So(NormalizeFinished([]string{"/c", "", "/a", "/c"}), ShouldResemble, []string{"/a", "/c"})
		So(NormalizeFinished(nil), ShouldResemble, []string{})
	})
}

func TestRecordString(t *testing.T) {
	Convey("String summarises the record", t, func() {
		So(Record{TrackIndex: 1, Position: 65, Finished: []string{"/a"}}.String(), ShouldEqual, "track 2 at 1:05, 1 finished")
		So(Record{DisplayName: "Mix"}.String(), ShouldEqual, "Mix: track 1 at 0:00, 0 finished")
	})
}

func TestSchema(t *testing.T) {
	Convey("The schema describes the persisted fields", t, func() {
		schema := Schema()
		So(schema, ShouldNotBeNil)
		So(schema.Properties.Len(), ShouldEqual, 4)
		_, ok := schema.Properties.Get("track_index")
		So(ok, ShouldBeTrue)
	})
}
