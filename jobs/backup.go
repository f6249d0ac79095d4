package jobs

import (
	"fmt"
	"os"
	"time"

	"github.com/AdamDubois/home-serveur/lib"
)

var _ = lib.RegisterJob("backups", func(c *lib.Ctx, args lib.J) {
	for _, key := range c.Storage.List("backups/") {
		fmt.Printf("  %s (%s)\n", key, lib.IntToString(c.Storage.Size(key)))
	}
})

var _ = lib.RegisterSchedule("db-backup", 24*time.Hour)

var _ = lib.RegisterJob("db-backup", func(c *lib.Ctx, args lib.J) {
	days := lib.StringToInt(lib.Env("WIFI_RETENTION_DAYS", "30"))
	c.DB.Execute(`delete from pings where timestamp < ?`, time.Now().UTC().AddDate(0, 0, -int(days)))

	path := c.DB.Path()
	if c.Storage.Bucket() == "" || path == ":memory:" {
		lib.LogInfo("db-backup: no bucket configured, pruned only")
		return
	}

	// .backup gives a consistent copy even mid-write
	tmp := path + ".backup"
	lib.ExecCmd(fmt.Sprintf(`sqlite3 %s ".backup '%s'"`, path, tmp))
	f, err := os.Open(tmp)
	lib.Check(err)
	key := "backups/" + time.Now().UTC().Format("2006-01-02") + ".db"
	c.Storage.PutStreaming(key, "application/octet-stream", f)
	f.Close()
	lib.Check(os.Remove(tmp))
	lib.LogInfo("db-backup: uploaded", lib.J{"key": key, "size": c.Storage.Size(key)})
})
