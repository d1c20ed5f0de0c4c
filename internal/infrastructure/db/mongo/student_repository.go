package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
)

const collectionStudents = "students"

type StudentRepository struct {
	col *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{col: db.Collection(collectionStudents)}
}

type studentDocument struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	Name           string              `bson:"name"`
	Email          string              `bson:"email"`
	Course         string              `bson:"course"`
	Age            int                 `bson:"age"`
	Phone          string              `bson:"phone,omitempty"`
	Address        string              `bson:"address,omitempty"`
	EnrollmentDate time.Time           `bson:"enrollmentDate"`
	Status         string              `bson:"status"`
	GPA            float64             `bson:"gpa"`
	CreatedBy      *primitive.ObjectID `bson:"createdBy"` // null for anonymous records
	CreatedAt      time.Time           `bson:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt"`
}

func toStudentDocument(s *domain.Student) (*studentDocument, error) {
	doc := &studentDocument{
		Name:           s.Name,
		Email:          s.Email,
		Course:         string(s.Course),
		Age:            s.Age,
		Phone:          s.Phone,
		Address:        s.Address,
		EnrollmentDate: s.EnrollmentDate.UTC(),
		Status:         string(s.Status),
		GPA:            s.GPA,
		CreatedAt:      s.CreatedAt.UTC(),
		UpdatedAt:      s.UpdatedAt.UTC(),
	}
	if s.ID != "" {
		id, err := primitive.ObjectIDFromHex(s.ID)
		if err != nil {
			return nil, domain.ErrStudentNotFound
		}
		doc.ID = id
	}
	if s.CreatedBy != "" {
		owner, err := primitive.ObjectIDFromHex(s.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("invalid owner id %q: %w", s.CreatedBy, err)
		}
		doc.CreatedBy = &owner
	}
	return doc, nil
}

func (d *studentDocument) toDomain() *domain.Student {
	s := &domain.Student{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Email:          d.Email,
		Course:         domain.Course(d.Course),
		Age:            d.Age,
		Phone:          d.Phone,
		Address:        d.Address,
		EnrollmentDate: d.EnrollmentDate.UTC(),
		Status:         domain.StudentStatus(d.Status),
		GPA:            d.GPA,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	if d.CreatedBy != nil {
		s.CreatedBy = d.CreatedBy.Hex()
	}
	return s
}

// Create inserts a new student document and sets s.ID.
func (r *StudentRepository) Create(ctx context.Context, s *domain.Student) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toStudentDocument(s)
	if err != nil {
		return err
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateStudent
		}
		return fmt.Errorf("insert student: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	return nil
}

// FindByID retrieves a student by id within scope. A malformed id is
// reported as not found.
func (r *StudentRepository) FindByID(ctx context.Context, id string, scope domain.Scope) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}
	filter, ok := scopeFilter(scope)
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	filter["_id"] = oid
	return r.findOne(ctx, filter)
}

// FindByEmail retrieves the student holding email within scope.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string, scope domain.Scope) (*domain.Student, error) {
	filter, ok := scopeFilter(scope)
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	filter["email"] = email
	return r.findOne(ctx, filter)
}

func (r *StudentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc studentDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of students matching f and the total match count.
func (r *StudentRepository) List(ctx context.Context, f ports.ListStudentsFilter) ([]*domain.Student, int64, error) {
	filter, ok := buildListFilter(f)
	if !ok {
		return []*domain.Student{}, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	opts := options.Find().
		SetSort(buildSort(f.Sort)).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find students: %w", err)
	}
	defer cur.Close(ctx)

	var docs []studentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode students: %w", err)
	}

	items := make([]*domain.Student, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, total, nil
}

// Update replaces the stored document of s and returns the result.
func (r *StudentRepository) Update(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	doc, err := toStudentDocument(s)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	var out studentDocument
	err = r.col.FindOneAndReplace(ctx, bson.M{"_id": doc.ID}, doc, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateStudent
		}
		return nil, fmt.Errorf("replace student: %w", err)
	}
	return out.toDomain(), nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrStudentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

type countBucket struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

type countResult struct {
	N int64 `bson:"n"`
}

type avgResult struct {
	Avg float64 `bson:"avg"`
}

type statsFacets struct {
	Total      []countResult `bson:"total"`
	ByCourse   []countBucket `bson:"byCourse"`
	ByStatus   []countBucket `bson:"byStatus"`
	AverageAge []avgResult   `bson:"averageAge"`
	Recent     []countResult `bson:"recent"`
}

// Stats computes the owner's dashboard summary in a single $facet pass.
func (r *StudentRepository) Stats(ctx context.Context, ownerID string, since time.Time) (*domain.StudentStats, error) {
	empty := &domain.StudentStats{ByCourse: []domain.CountByKey{}, ByStatus: []domain.CountByKey{}}

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return empty, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, statsPipeline(owner, since))
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cur.Close(ctx)

	var facets []statsFacets
	if err := cur.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	if len(facets) == 0 {
		return empty, nil
	}
	return facets[0].toDomain(), nil
}

func statsPipeline(owner primitive.ObjectID, since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdBy": owner}}},
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "n"}},
			"byCourse": bson.A{
				bson.M{"$group": bson.M{"_id": "$course", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
			},
			"byStatus": bson.A{
				bson.M{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.D{{Key: "_id", Value: 1}}},
			},
			"averageAge": bson.A{
				bson.M{"$group": bson.M{"_id": nil, "avg": bson.M{"$avg": "$age"}}},
			},
			"recent": bson.A{
				bson.M{"$match": bson.M{"createdAt": bson.M{"$gte": since.UTC()}}},
				bson.M{"$count": "n"},
			},
		}}},
	}
}

func (f statsFacets) toDomain() *domain.StudentStats {
	st := &domain.StudentStats{
		ByCourse: toCounts(f.ByCourse),
		ByStatus: toCounts(f.ByStatus),
	}
	if len(f.Total) > 0 {
		st.Total = f.Total[0].N
	}
	if len(f.AverageAge) > 0 {
		st.AverageAge = f.AverageAge[0].Avg
	}
	if len(f.Recent) > 0 {
		st.RecentAdditions = f.Recent[0].N
	}
	return st
}

func toCounts(buckets []countBucket) []domain.CountByKey {
	out := make([]domain.CountByKey, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, domain.CountByKey{Key: b.Key, Count: b.Count})
	}
	return out
}

// EnsureIndexes creates the indexes the student queries rely on. The unique
// (createdBy, email) index is the source of truth for duplicate detection.
func (r *StudentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("owner_email_unique"),
		},
		{Keys: bson.D{{Key: "course", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// scopeFilter translates scope into a query fragment. ok is false when the
// scope names an owner that cannot exist, so nothing can match.
func scopeFilter(scope domain.Scope) (bson.M, bool) {
	filter := bson.M{}
	owner, scoped := scope.OwnerID()
	if !scoped {
		return filter, true
	}
	oid, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return nil, false
	}
	filter["createdBy"] = oid
	return filter, true
}

// buildListFilter turns a listing query into a Mongo filter. Search is
// matched literally, case-insensitively, against name or email.
func buildListFilter(f ports.ListStudentsFilter) (bson.M, bool) {
	filter, ok := scopeFilter(f.Scope)
	if !ok {
		return nil, false
	}
	if f.Course != "" {
		filter["course"] = f.Course
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"email": rx},
		}
	}
	return filter, true
}

// buildSort orders by the requested field with _id as a tiebreaker so that
// paging is stable.
func buildSort(s domain.Sort) bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: string(s.Field), Value: dir}, {Key: "_id", Value: dir}}
}
