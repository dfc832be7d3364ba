package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Load(t *testing.T) {
	t.Log("Given the need to load the genesis settings.")
	{
		t.Logf("\tTest 0:\tWhen no file is specified.")
		{
			g, err := genesis.Load("")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould get the defaults: %v", failed, err)
			}
			if g.Difficulty != 4 || g.MiningReward != 12.5 {
				t.Fatalf("\t%s\tTest 0:\tShould get difficulty 4 and reward 12.5: %+v", failed, g)
			}
			t.Logf("\t%s\tTest 0:\tShould get the defaults.", success)
		}

		t.Logf("\tTest 1:\tWhen a file overrides some values.")
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(`{"difficulty":2,"max_pool_size":10}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to write the file: %v", failed, err)
			}

			g, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to load the file: %v", failed, err)
			}
			if g.Difficulty != 2 || g.MaxPoolSize != 10 || g.MiningReward != 12.5 {
				t.Fatalf("\t%s\tTest 1:\tShould merge the file with the defaults: %+v", failed, g)
			}
			t.Logf("\t%s\tTest 1:\tShould merge the file with the defaults.", success)
		}

		t.Logf("\tTest 2:\tWhen the file has a bad difficulty.")
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			os.WriteFile(path, []byte(`{"difficulty":0}`), 0600)

			if _, err := genesis.Load(path); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a zero difficulty.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a zero difficulty.", success)
		}

		t.Logf("\tTest 3:\tWhen the file does not exist.")
		{
			g, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json"))
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould fall back to the defaults: %v", failed, err)
			}
			if g.Difficulty != genesis.Default().Difficulty {
				t.Fatalf("\t%s\tTest 3:\tShould get the default difficulty: %d", failed, g.Difficulty)
			}
			t.Logf("\t%s\tTest 3:\tShould fall back to the defaults.", success)
		}
	}
}
