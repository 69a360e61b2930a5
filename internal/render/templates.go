package render

// pageTemplate is the html/template for the browser page. Navigation and
// filter controls are plain forms so the page works without script; the
// script adds share replay, the share dialog and the live event stream.
const pageTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Meta.Title}}</title>
  <meta name="description" content="{{.Meta.Description}}">
  <meta name="keywords" content="{{.Meta.Keywords}}">
  <meta property="og:title" content="{{.Meta.Title}}">
  <meta property="og:description" content="{{.Meta.Description}}">
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; }
    [data-theme="dark"] body { background: #0f172a; color: #e2e8f0; }
    .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); gap: 16px; }
    .card { border: 1px solid #cbd5e1; border-radius: 8px; padding: 16px; }
    .card.highlight-shared { outline: 3px solid #4f46e5; }
    .toast { position: fixed; bottom: 16px; right: 16px; padding: 12px 16px; border-radius: 6px; background: #334155; color: #fff; }
    .toast.error { background: #b91c1c; } .toast.success { background: #15803d; } .toast.warning { background: #b45309; }
    .breadcrumb a { color: inherit; }
    dialog { max-width: 480px; }
  </style>
</head>
<body>
  <header>
    <a href="/">StudyHub</a>
    <form method="post" action="/theme" style="display:inline">
      <button type="submit" aria-label="Toggle theme">{{if eq .Theme "dark"}}Light mode{{else}}Dark mode{{end}}</button>
    </form>
    <button type="button" id="share-current">Share</button>
  </header>

  {{with .Breadcrumb}}
  <nav class="breadcrumb" id="breadcrumbNav">
    {{range $i, $c := .}}{{if $i}}<span class="breadcrumb-separator">›</span>{{end}}
      <span class="breadcrumb-item">{{if $c.Link}}<form method="post" action="{{if eq (print $c.Level) "course"}}/nav/home{{else}}/nav/back/{{$c.Level}}{{end}}" style="display:inline"><button type="submit">{{$c.Label}}</button></form>{{else}}{{$c.Label}}{{end}}</span>
    {{end}}
  </nav>
  {{end}}

  <main id="courses" data-level="{{.Level}}">
    {{if .Error}}
    <section class="error-panel">
      <h3>Error Loading Content</h3>
      <p>{{.Error}}</p>
      <button type="button" onclick="location.reload()">Reload Page</button>
    </section>
    {{else if .Loading}}
    <section class="loading"><p>Loading courses…</p></section>
    {{else}}
    <section class="step" id="step-{{.Level}}">
      <h2>{{.Heading}}</h2>
      {{if eq (print .Level) "resource"}}
      <form method="post" action="/filter" class="filters">
        <select name="type">
          <option value="all"{{if eq .Filters.Type "all"}} selected{{end}}>All types</option>
          {{range .Types}}<option value="{{.}}"{{if eq $.Filters.Type .}} selected{{end}}>{{.}}</option>{{end}}
        </select>
        <select name="language">
          <option value="all"{{if eq .Filters.Language "all"}} selected{{end}}>All languages</option>
          {{range .Languages}}<option value="{{.}}"{{if eq $.Filters.Language .}} selected{{end}}>{{.}}</option>{{end}}
        </select>
        <button type="submit">Apply</button>
      </form>
      {{end}}

      {{with .Empty}}
      <div class="empty-state">
        <h3>{{.Title}}</h3>
        {{with .Hint}}<p>{{.}}</p>{{end}}
      </div>
      {{end}}

      <div class="grid">
        {{range .Cards}}
        <form method="post" action="/nav/{{.Level}}/{{.ID}}" class="card {{.Level}}-item{{if .Highlight}} highlight-shared{{end}}" data-type="{{.Level}}" data-id="{{.ID}}">
          {{with .Icon}}<i class="{{.}}"></i>{{end}}
          {{with .Tag}}<span class="tag">{{.}}</span>{{end}}
          {{with .Badge}}<span class="badge">{{.}}</span>{{end}}
          <h3>{{.Title}}</h3>
          {{.DescriptionHTML}}
          <button type="submit">Open</button>
        </form>
        {{end}}

        {{range .Resources}}
        <article class="card resource-card{{if .Highlight}} highlight-shared{{end}}" data-type="resource" data-id="{{.Resource.ID}}">
          <span class="resource-type-badge {{.Badge}}">{{.Resource.Type}}</span>
          <h3>{{.Resource.Title}}</h3>
          {{.DescriptionHTML}}
          <div class="resource-meta">
            <span>{{.Language}}</span> <span>{{.University}}</span> <span>{{.Year}}</span>
            <span>{{.Downloads}} downloads</span>
          </div>
          <div class="resource-actions">
            <a href="/download/{{.Resource.ID}}" target="_blank" rel="noopener" class="resource-download-btn">{{.ActionLabel}}</a>
            <form method="post" action="/bookmarks/{{.Resource.ID}}" style="display:inline">
              <button type="submit" class="btn-bookmark{{if .Bookmarked}} bookmarked{{end}}" title="{{if .Bookmarked}}Remove from saved{{else}}Save for later{{end}}">Save</button>
            </form>
            <button type="button" class="share-resource" data-id="{{.Resource.ID}}">Share</button>
          </div>
        </article>
        {{end}}
      </div>
    </section>
    {{end}}
  </main>

  <dialog id="share-modal">
    <h3 id="share-title"></h3>
    <p id="share-description"></p>
    <input id="share-url" readonly size="48">
    <button type="button" id="share-copy">Copy</button>
    <div id="share-targets"></div>
    <form method="dialog"><button>Close</button></form>
  </dialog>
  <div id="toasts" aria-live="polite"></div>

  <script>
  (function () {
    function toast(message, kind) {
      var el = document.createElement('div');
      el.className = 'toast ' + (kind || 'info');
      el.textContent = message;
      document.getElementById('toasts').appendChild(el);
      setTimeout(function () { el.remove(); }, 3000);
    }

    function setHighlight(id, on) {
      document.querySelectorAll('[data-id]').forEach(function (el) {
        if (el.getAttribute('data-id') === id) {
          el.classList.toggle('highlight-shared', on);
          if (on) { el.scrollIntoView({ behavior: 'smooth', block: 'center' }); }
        }
      });
    }

    function connect() {
      var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
      var ws = new WebSocket(proto + location.host + '/ws/events');
      ws.onmessage = function (msg) {
        var ev = JSON.parse(msg.data);
        if (ev.type === 'toast') { toast(ev.message, ev.kind); }
        else if (ev.type === 'highlight') { setHighlight(ev.id, true); }
        else if (ev.type === 'highlight_clear') { setHighlight(ev.id, false); }
        else if (ev.type === 'navigate' && !replaying) { location.reload(); }
      };
      ws.onclose = function () { setTimeout(connect, 5000); };
    }

    var replaying = false;

    function replay() {
      if (location.hash.indexOf('#/share?') !== 0) { return; }
      var fragment = location.hash;
      replaying = true;
      history.replaceState(null, '', location.pathname + '#courses');
      fetch('/api/replay', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ fragment: fragment })
      }).then(function (resp) { return resp.json(); }).then(function () {
        location.reload();
      }).catch(function () { replaying = false; });
    }

    function copy(text) {
      function fallback() {
        var input = document.getElementById('share-url');
        input.select();
        try {
          if (document.execCommand('copy')) { toast('Link copied to clipboard!', 'success'); return; }
        } catch (e) {}
        toast('Failed to copy link', 'error');
      }
      if (navigator.clipboard && window.isSecureContext) {
        navigator.clipboard.writeText(text).then(function () {
          toast('Link copied to clipboard!', 'success');
        }, fallback);
      } else {
        fallback();
      }
    }

    function openShare(query) {
      fetch('/api/share' + query).then(function (resp) { return resp.json(); }).then(function (s) {
        document.getElementById('share-title').textContent = s.view.title;
        document.getElementById('share-description').textContent = s.view.description;
        document.getElementById('share-url').value = s.url;
        var targets = document.getElementById('share-targets');
        targets.textContent = '';
        s.targets.forEach(function (t) {
          var a = document.createElement('a');
          a.href = t.url; a.target = '_blank'; a.rel = 'noopener'; a.textContent = t.name;
          targets.appendChild(a);
          targets.appendChild(document.createTextNode(' '));
        });
        var modal = document.getElementById('share-modal');
        if (navigator.share) {
          navigator.share({ title: s.view.title, text: s.text, url: s.url }).catch(function () { modal.showModal(); });
        } else {
          modal.showModal();
        }
      });
    }

    document.getElementById('share-copy').addEventListener('click', function () {
      copy(document.getElementById('share-url').value);
    });
    document.getElementById('share-current').addEventListener('click', function () { openShare(''); });
    document.querySelectorAll('.share-resource').forEach(function (btn) {
      btn.addEventListener('click', function () {
        openShare('?type=resource&id=' + encodeURIComponent(btn.getAttribute('data-id')));
      });
    });
    document.addEventListener('keydown', function (e) {
      if (e.key === 'Escape') { document.getElementById('share-modal').close(); }
    });

    window.addEventListener('hashchange', replay);
    replay();
    connect();
  })();
  </script>
</body>
</html>`
