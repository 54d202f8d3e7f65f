// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"database/sql"

	"github.com/RoaringBitmap/roaring/v2"
)

// Member is one enrollment record inside a course roster.
type Member struct {
	Student int32
	Value   sql.NullFloat64
}

// Index is the bipartite student <-> course relation of a term. Students and courses
// are numbered densely in first-seen order. An Index is never modified after NewIndex
// returns, so it can be shared by any number of readers.
type Index struct {
	students       *FreqDict
	courses        *FreqDict
	studentCourses []*roaring.Bitmap
	rosters        [][]Member
}

// NewIndex builds the index in one pass. Every enrollment lands in exactly one roster;
// repeated (student, course) records stay repeated in the roster.
func NewIndex(enrollments []Enrollment) *Index {
	idx := &Index{
		students: NewFreqDict(),
		courses:  NewFreqDict(),
	}
	for _, enrollment := range enrollments {
		studentIndex := idx.students.Id(enrollment.StudentId)
		courseIndex := idx.courses.Id(enrollment.CourseId)
		if studentIndex == len(idx.studentCourses) {
			idx.studentCourses = append(idx.studentCourses, roaring.New())
		}
		if courseIndex == len(idx.rosters) {
			idx.rosters = append(idx.rosters, nil)
		}
		idx.studentCourses[studentIndex].Add(uint32(courseIndex))
		idx.rosters[courseIndex] = append(idx.rosters[courseIndex], Member{
			Student: int32(studentIndex),
			Value:   enrollment.Value,
		})
	}
	return idx
}

func (idx *Index) CountStudents() int {
	return idx.students.Count()
}

func (idx *Index) CountCourses() int {
	return idx.courses.Count()
}

func (idx *Index) StudentId(student int) string {
	s, _ := idx.students.String(student)
	return s
}

func (idx *Index) CourseId(course int) string {
	s, _ := idx.courses.String(course)
	return s
}

func (idx *Index) LookupStudent(studentId string) (int, bool) {
	return idx.students.Lookup(studentId)
}

func (idx *Index) LookupCourse(courseId string) (int, bool) {
	return idx.courses.Lookup(courseId)
}

// CountEnrollments returns the number of records of a student.
func (idx *Index) CountEnrollments(student int) int {
	return idx.students.Freq(student)
}

// Courses returns the distinct courses of a student in ascending order.
func (idx *Index) Courses(student int) []uint32 {
	return idx.studentCourses[student].ToArray()
}

// Roster returns the members of a course in input order. The slice must not be modified.
func (idx *Index) Roster(course int) []Member {
	return idx.rosters[course]
}

// Neighbors returns the feature values of every record sharing a course with the student,
// excluding records of the student itself.
func (idx *Index) Neighbors(student int) []sql.NullFloat64 {
	var values []sql.NullFloat64
	idx.studentCourses[student].Iterate(func(course uint32) bool {
		for _, member := range idx.rosters[course] {
			if int(member.Student) != student {
				values = append(values, member.Value)
			}
		}
		return true
	})
	return values
}

// Classmates returns the feature values of every record of a course, including all
// records of the student being scored.
func (idx *Index) Classmates(course int) []sql.NullFloat64 {
	values := make([]sql.NullFloat64, len(idx.rosters[course]))
	for i, member := range idx.rosters[course] {
		values[i] = member.Value
	}
	return values
}
