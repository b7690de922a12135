package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApplicationTransitions(t *testing.T) {
	Convey("Given application statuses", t, func() {
		Convey("Applied may move to any later state", func() {
			So(ApplicationApplied.CanTransition(ApplicationReviewed), ShouldBeTrue)
			So(ApplicationApplied.CanTransition(ApplicationAccepted), ShouldBeTrue)
			So(ApplicationApplied.CanTransition(ApplicationRejected), ShouldBeTrue)
			So(ApplicationApplied.CanTransition(ApplicationApplied), ShouldBeFalse)
		})

		Convey("Reviewed may only be decided", func() {
			So(ApplicationReviewed.CanTransition(ApplicationAccepted), ShouldBeTrue)
			So(ApplicationReviewed.CanTransition(ApplicationRejected), ShouldBeTrue)
			So(ApplicationReviewed.CanTransition(ApplicationApplied), ShouldBeFalse)
		})

		Convey("Decisions are final", func() {
			So(ApplicationAccepted.CanTransition(ApplicationRejected), ShouldBeFalse)
			So(ApplicationRejected.CanTransition(ApplicationReviewed), ShouldBeFalse)
		})

		Convey("Unknown statuses are invalid", func() {
			So(ApplicationStatus("hired").Valid(), ShouldBeFalse)
			So(ApplicationAccepted.Valid(), ShouldBeTrue)
		})
	})
}

func TestRolesAndKeys(t *testing.T) {
	Convey("Roles, emails and keys", t, func() {
		So(RoleEmployer.Valid(), ShouldBeTrue)
		So(Role("admin").Valid(), ShouldBeFalse)
		So(NormalizeEmail("  Ann@Example.COM "), ShouldEqual, "ann@example.com")

		r := Resume{UserID: "u1", SHA256: "abc"}
		So(r.DedupeKey(), ShouldEqual, "u1:abc")

		a := Application{JobID: "j1", UserID: "u1"}
		So(a.UniqueKey(), ShouldEqual, "j1:u1")

		j := Job{Description: "React", Requirements: "AWS", Skills: []string{"React"}}
		So(j.SkillText(), ShouldEqual, "React AWS")
		So(JobSkills(j), ShouldResemble, []string{"React"})
	})
}
