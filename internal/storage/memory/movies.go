package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"movielib/proj/internal/domain/filters"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
)

type MovieModel struct {
	db *db
}

func cloneMovie(m models.Movie) *models.Movie {
	m.ReleaseYear = clonePtr(m.ReleaseYear)
	m.Rating = clonePtr(m.Rating)
	m.Director = clonePtr(m.Director)
	m.Duration = clonePtr(m.Duration)
	m.Description = clonePtr(m.Description)
	return &m
}

func (m *MovieModel) Get(ctx context.Context, id int64) (*models.Movie, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	movie, ok := m.db.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneMovie(movie), nil
}

func (m *MovieModel) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.seq.movies++
	stored := *cloneMovie(*movie)
	stored.ID = m.db.seq.movies
	m.db.movies[stored.ID] = stored
	return cloneMovie(stored), nil
}

func (m *MovieModel) List(ctx context.Context, filter filters.MovieFilter, f filters.Filters) ([]models.Movie, int, error) {
	m.db.mu.RLock()
	matched := make([]models.Movie, 0, len(m.db.movies))
	for _, movie := range m.db.movies {
		if filter.PublicOnly && !movie.Public {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(movie.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Genre != "" && !strings.EqualFold(movie.Genre, filter.Genre) {
			continue
		}
		matched = append(matched, *cloneMovie(movie))
	}
	m.db.mu.RUnlock()

	column, desc := f.SortColumn(), f.SortDirection() == filters.DescSort
	slices.SortFunc(matched, func(a, b models.Movie) int {
		c := compareMovies(column, a, b)
		if desc {
			c = -c
		}
		if c == 0 {
			return cmp.Compare(a.ID, b.ID)
		}
		return c
	})

	total := len(matched)
	start := min(max(f.Offset(), 0), total)
	end := min(start+f.Limit(), total)
	return matched[start:end], total, nil
}

// compareMovies orders by column; NULL values sort last in ascending order,
// the way PostgreSQL does.
func compareMovies(column string, a, b models.Movie) int {
	switch column {
	case "title":
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case "release_year":
		return compareNullable(a.ReleaseYear, b.ReleaseYear)
	case "rating":
		return compareNullable(a.Rating, b.Rating)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareNullable[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

func (m *MovieModel) Update(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	current, ok := m.db.movies[movie.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	stored := *cloneMovie(*movie)
	stored.CreatedAt = current.CreatedAt
	m.db.movies[stored.ID] = stored
	return cloneMovie(stored), nil
}

func (m *MovieModel) Delete(ctx context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.movies[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.db.movies, id)
	return nil
}

func (m *MovieModel) CountByOwner(ctx context.Context, userID int64) (int, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	count := 0
	for _, movie := range m.db.movies {
		if movie.UserID == userID {
			count++
		}
	}
	return count, nil
}
