package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jose-valero/spinboard/internal/domain"
)

// RedisStore: un hash por empleado ({prefix}:employee:{id} → name, wins) y un set con los ids vivos.
// Todo lo que muta corre en un script Lua, que Redis ejecuta de forma atómica.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

var (
	// KEYS[1] = hash del empleado
	incrWinsScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return false
end
local wins = redis.call('HINCRBY', KEYS[1], 'wins', 1)
local name = redis.call('HGET', KEYS[1], 'name')
return {name, wins}
`)

	// KEYS[1] = hash, ARGV[1] = name, ARGV[2] = wins
	updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return false
end
redis.call('HSET', KEYS[1], 'name', ARGV[1], 'wins', ARGV[2])
return 1
`)

	// KEYS[1] = set de ids, KEYS[2] = hash, ARGV[1] = id
	deleteScript = redis.NewScript(`
if redis.call('SREM', KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call('DEL', KEYS[2])
return 1
`)
)

func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "spinboard"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// OpenRedis crea el cliente y hace ping.
func OpenRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", unavailable(err))
	}
	return rdb, nil
}

func (s *RedisStore) idsKey() string          { return s.prefix + ":employees" }
func (s *RedisStore) rowKey(id string) string { return s.prefix + ":employee:" + id }

func (s *RedisStore) List(ctx context.Context) ([]domain.Employee, error) {
	ids, err := s.rdb.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, redisErr(err)
	}
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, s.rowKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, redisErr(err)
	}

	out := make([]domain.Employee, 0, len(ids))
	for i, id := range ids {
		m := cmds[i].Val()
		if len(m) == 0 {
			// borrado entre SMEMBERS y HGETALL
			continue
		}
		e, err := fromHash(id, m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (domain.Employee, error) {
	m, err := s.rdb.HGetAll(ctx, s.rowKey(id)).Result()
	if err != nil {
		return domain.Employee{}, redisErr(err)
	}
	if len(m) == 0 {
		return domain.Employee{}, domain.ErrNotFound
	}
	return fromHash(id, m)
}

func (s *RedisStore) IncrementWins(ctx context.Context, id string) (domain.Employee, error) {
	res, err := incrWinsScript.Run(ctx, s.rdb, []string{s.rowKey(id)}).Slice()
	if err != nil {
		return domain.Employee{}, redisErr(err)
	}
	if len(res) != 2 {
		return domain.Employee{}, fmt.Errorf("redis incr wins: unexpected reply %v", res)
	}
	name, _ := res[0].(string)
	wins, _ := res[1].(int64)
	return domain.Employee{ID: id, Name: name, Wins: int(wins)}, nil
}

func (s *RedisStore) Create(ctx context.Context, in domain.NewEmployee) (domain.Employee, error) {
	id := uuid.NewString()
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.rowKey(id), "name", in.Name, "wins", in.Wins)
		p.SAdd(ctx, s.idsKey(), id)
		return nil
	})
	if err != nil {
		return domain.Employee{}, redisErr(err)
	}
	return domain.Employee{ID: id, Name: in.Name, Wins: in.Wins}, nil
}

func (s *RedisStore) Update(ctx context.Context, in domain.Employee) (domain.Employee, error) {
	err := updateScript.Run(ctx, s.rdb, []string{s.rowKey(in.ID)}, in.Name, in.Wins).Err()
	if err != nil {
		return domain.Employee{}, redisErr(err)
	}
	return in, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := deleteScript.Run(ctx, s.rdb, []string{s.idsKey(), s.rowKey(id)}, id).Int()
	if err != nil {
		return false, redisErr(err)
	}
	return n == 1, nil
}

func (s *RedisStore) ExistingNames(ctx context.Context, names []string) (map[string]bool, error) {
	out := map[string]bool{}
	if len(names) == 0 {
		return out, nil
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range all {
		if _, ok := want[e.Name]; ok {
			out[e.Name] = true
		}
	}
	return out, nil
}

func fromHash(id string, m map[string]string) (domain.Employee, error) {
	wins, err := strconv.Atoi(m["wins"])
	if err != nil {
		return domain.Employee{}, fmt.Errorf("redis employee %s: bad wins %q: %w", id, m["wins"], err)
	}
	return domain.Employee{ID: id, Name: m["name"], Wins: wins}, nil
}

// redisErr: redis.Nil (el script devolvió false) → NotFound; errores de red → unavailable.
func redisErr(err error) error {
	if errors.Is(err, redis.Nil) {
		return domain.ErrNotFound
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return unavailable(err)
	}
	return err
}
