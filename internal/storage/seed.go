package storage

import (
	"strconv"

	"github.com/aanand-mishra/classroom-api/internal/types"
)

// Seed returns a fresh copy of the sample document written on first run.
func Seed() types.Document {
	return types.Document{
		Teacher: types.Teacher{
			ID:       "teacher-001",
			Name:     "John Smith",
			Email:    "teacher@school.com",
			Password: "teacher123",
			Image:    "https://reqres.in/img/faces/1-image.jpg",
		},
		Students: []types.Student{
			seedStudent("stu-001", "Emma", "Johnson", "emma.johnson@email.com", 20, "2023-09-01", 2,
				"Mathematics", "Physics", "Computer Science"),
			seedStudent("stu-002", "Liam", "Williams", "liam.williams@email.com", 19, "2023-09-01", 3,
				"English Literature", "History", "Philosophy"),
			seedStudent("stu-003", "Olivia", "Brown", "olivia.brown@email.com", 21, "2022-09-01", 4,
				"Biology", "Chemistry", "Environmental Science"),
			seedStudent("stu-004", "Noah", "Davis", "noah.davis@email.com", 20, "2023-01-15", 5,
				"Economics", "Business Management", "Statistics"),
			seedStudent("stu-005", "Ava", "Martinez", "ava.martinez@email.com", 19, "2023-09-01", 6,
				"Art History", "Studio Art", "Design"),
			seedStudent("stu-006", "Ethan", "Garcia", "ethan.garcia@email.com", 22, "2022-01-10", 7,
				"Computer Science", "Mathematics", "Data Science"),
			seedStudent("stu-007", "Sophia", "Rodriguez", "sophia.rodriguez@email.com", 20, "2023-09-01", 8,
				"Psychology", "Sociology", "Communications"),
			seedStudent("stu-008", "Mason", "Wilson", "mason.wilson@email.com", 21, "2022-09-01", 9,
				"Mechanical Engineering", "Physics", "Mathematics"),
			seedStudent("stu-009", "Isabella", "Anderson", "isabella.anderson@email.com", 19, "2023-09-01", 10,
				"Political Science", "International Relations", "Law"),
			seedStudent("stu-010", "James", "Thomas", "james.thomas@email.com", 20, "2023-01-15", 11,
				"Music Theory", "Performance", "Music History"),
			seedStudent("stu-011", "Mia", "Taylor", "mia.taylor@email.com", 22, "2021-09-01", 12,
				"Nursing", "Anatomy", "Public Health"),
			seedStudent("stu-012", "Benjamin", "Moore", "benjamin.moore@email.com", 19, "2023-09-01", 13,
				"Film Studies", "Media Production", "Digital Arts"),
		},
	}
}

func seedStudent(id, first, last, email string, age int, enrolled string, face int, courses ...string) types.Student {
	return types.Student{
		ID:             id,
		FirstName:      first,
		LastName:       last,
		Email:          email,
		Age:            &age,
		EnrollmentDate: enrolled,
		Image:          FaceURL(face),
		Courses:        courses,
	}
}

// FaceURL is the placeholder avatar with the given number.
func FaceURL(n int) string {
	return "https://reqres.in/img/faces/" + strconv.Itoa(n) + "-image.jpg"
}
